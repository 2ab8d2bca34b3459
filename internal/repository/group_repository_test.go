package repository_test

import (
	"context"
	"errors"
	"testing"

	"taskmanager/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGroupRepository_IsMember(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "group_user"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Act
	member, err := groupRepo.IsMember(context.Background(), uuid.New(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.True(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_IsMember_NotAMember(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "group_user"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Act
	member, err := groupRepo.IsMember(context.Background(), uuid.New(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.False(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_AddMembers_Success(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	groupID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "group_user" WHERE user_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "user_id"}))
	mock.ExpectExec(`INSERT INTO "group_user"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := groupRepo.AddMembers(context.Background(), groupID, []uuid.UUID{userID})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_AddMembers_SkipsExistingMember(t *testing.T) {
	// Arrange: the user is already in this group, so no insert happens.
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	groupID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "group_user" WHERE user_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "user_id"}).
			AddRow(groupID.String(), userID.String()))
	mock.ExpectCommit()

	// Act
	err := groupRepo.AddMembers(context.Background(), groupID, []uuid.UUID{userID})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_AddMembers_UserInAnotherGroup(t *testing.T) {
	// Arrange: one candidate already belongs to a different group; the whole
	// call fails and no rows are written.
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	groupID := uuid.New()
	otherGroupID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "group_user" WHERE user_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "user_id"}).
			AddRow(otherGroupID.String(), userID.String()))
	mock.ExpectQuery(`SELECT "name" FROM "users" WHERE id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Bob"))
	mock.ExpectRollback()

	// Act
	err := groupRepo.AddMembers(context.Background(), groupID, []uuid.UUID{userID})

	// Assert
	var conflict *repository.UsersInAnotherGroupError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"Bob"}, conflict.Names)
	assert.Equal(t, "The following users are already in another group: Bob", conflict.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_RemoveMember_AbsentIsNoError(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "group_user"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := groupRepo.RemoveMember(context.Background(), uuid.New(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "groups" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	// Act
	group, err := groupRepo.GetByID(context.Background(), uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrGroupNotFound)
	assert.Nil(t, group)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Delete_RemovesMembershipEdges(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	groupID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "group_user"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "groups"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := groupRepo.Delete(context.Background(), groupID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
