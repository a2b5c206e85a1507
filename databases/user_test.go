package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/databases/mocks"
	"github.com/linesmerrill/civicdesk/models"
)

func TestUserDatabase_FindOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelperErr := &mocks.SingleResultHelper{}
	srHelperCorrect := &mocks.SingleResultHelper{}

	srHelperErr.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	srHelperCorrect.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).Email = "ana@example.com"
		(*arg).Role = models.RoleResident
	})

	collectionHelper.On("FindOne", context.Background(), bson.M{"email": "missing@example.com"}).Return(srHelperErr)
	collectionHelper.On("FindOne", context.Background(), bson.M{"email": "ana@example.com"}).Return(srHelperCorrect)
	dbHelper.On("Collection", "users").Return(collectionHelper)

	userDB := databases.NewUserDatabase(dbHelper)

	user, err := userDB.FindOne(context.Background(), bson.M{"email": "missing@example.com"})
	assert.Nil(t, user)
	assert.EqualError(t, err, "mocked-error")

	user, err = userDB.FindOne(context.Background(), bson.M{"email": "ana@example.com"})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleResident, user.Role)
}

func TestUserDatabase_DeleteOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("DeleteOne", mock.Anything, bson.M{"_id": "gone"}).Return(int64(0), nil)
	dbHelper.On("Collection", "users").Return(collectionHelper)

	n, err := databases.NewUserDatabase(dbHelper).DeleteOne(context.Background(), bson.M{"_id": "gone"})
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestAnnouncementDatabase_FindDefaultsToPinnedFirst(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("All", mock.Anything, mock.Anything).Return(nil)
	cursor.On("Close", mock.Anything).Return(nil)
	collectionHelper.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(cursor, nil)
	dbHelper.On("Collection", "announcements").Return(collectionHelper)

	_, err := databases.NewAnnouncementDatabase(dbHelper).Find(context.Background(), bson.M{})
	assert.NoError(t, err)
	collectionHelper.AssertNumberOfCalls(t, "Find", 1)
}
