package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/civicdesk/models"
)

// ComplaintDatabase is a mock type for the ComplaintDatabase type
type ComplaintDatabase struct {
	mock.Mock
}

// FindOne provides a mock function with given fields: ctx, filter
func (_m *ComplaintDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Complaint, error) {
	ret := _m.Called(ctx, filter)

	var r0 *models.Complaint
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Complaint)
	}
	return r0, ret.Error(1)
}

// Find provides a mock function with given fields: ctx, filter, opts
func (_m *ComplaintDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Complaint, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, opts)...)

	var r0 []models.Complaint
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Complaint)
	}
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, complaint
func (_m *ComplaintDatabase) InsertOne(ctx context.Context, complaint models.Complaint) (interface{}, error) {
	ret := _m.Called(ctx, complaint)
	return ret.Get(0), ret.Error(1)
}

// FindOneAndUpdate provides a mock function with given fields: ctx, filter, update
func (_m *ComplaintDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Complaint, error) {
	ret := _m.Called(ctx, filter, update)

	var r0 *models.Complaint
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Complaint)
	}
	return r0, ret.Error(1)
}

// CountDocuments provides a mock function with given fields: ctx, filter
func (_m *ComplaintDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	ret := _m.Called(ctx, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

// AnnouncementDatabase is a mock type for the AnnouncementDatabase type
type AnnouncementDatabase struct {
	mock.Mock
}

// FindOne provides a mock function with given fields: ctx, filter
func (_m *AnnouncementDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Announcement, error) {
	ret := _m.Called(ctx, filter)

	var r0 *models.Announcement
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Announcement)
	}
	return r0, ret.Error(1)
}

// Find provides a mock function with given fields: ctx, filter, opts
func (_m *AnnouncementDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Announcement, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, opts)...)

	var r0 []models.Announcement
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Announcement)
	}
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, announcement
func (_m *AnnouncementDatabase) InsertOne(ctx context.Context, announcement models.Announcement) (interface{}, error) {
	ret := _m.Called(ctx, announcement)
	return ret.Get(0), ret.Error(1)
}

// FindOneAndUpdate provides a mock function with given fields: ctx, filter, update
func (_m *AnnouncementDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Announcement, error) {
	ret := _m.Called(ctx, filter, update)

	var r0 *models.Announcement
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Announcement)
	}
	return r0, ret.Error(1)
}

// DeleteOne provides a mock function with given fields: ctx, filter
func (_m *AnnouncementDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	ret := _m.Called(ctx, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

// CountDocuments provides a mock function with given fields: ctx, filter
func (_m *AnnouncementDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	ret := _m.Called(ctx, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

// ReportDatabase is a mock type for the ReportDatabase type
type ReportDatabase struct {
	mock.Mock
}

// FindOne provides a mock function with given fields: ctx, filter
func (_m *ReportDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Report, error) {
	ret := _m.Called(ctx, filter)

	var r0 *models.Report
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Report)
	}
	return r0, ret.Error(1)
}

// Find provides a mock function with given fields: ctx, filter, opts
func (_m *ReportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Report, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, opts)...)

	var r0 []models.Report
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Report)
	}
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, report
func (_m *ReportDatabase) InsertOne(ctx context.Context, report models.Report) (interface{}, error) {
	ret := _m.Called(ctx, report)
	return ret.Get(0), ret.Error(1)
}

// UserDatabase is a mock type for the UserDatabase type
type UserDatabase struct {
	mock.Mock
}

// FindOne provides a mock function with given fields: ctx, filter
func (_m *UserDatabase) FindOne(ctx context.Context, filter interface{}) (*models.User, error) {
	ret := _m.Called(ctx, filter)

	var r0 *models.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.User)
	}
	return r0, ret.Error(1)
}

// Find provides a mock function with given fields: ctx, filter, opts
func (_m *UserDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.User, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, opts)...)

	var r0 []models.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.User)
	}
	return r0, ret.Error(1)
}

// CountDocuments provides a mock function with given fields: ctx, filter
func (_m *UserDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	ret := _m.Called(ctx, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, user
func (_m *UserDatabase) InsertOne(ctx context.Context, user models.User) (interface{}, error) {
	ret := _m.Called(ctx, user)
	return ret.Get(0), ret.Error(1)
}

// FindOneAndUpdate provides a mock function with given fields: ctx, filter, update
func (_m *UserDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.User, error) {
	ret := _m.Called(ctx, filter, update)

	var r0 *models.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.User)
	}
	return r0, ret.Error(1)
}

// DeleteOne provides a mock function with given fields: ctx, filter
func (_m *UserDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	ret := _m.Called(ctx, filter)
	return ret.Get(0).(int64), ret.Error(1)
}
