// Package docs CivicDesk API.
//
// Documentation of the CivicDesk complaint desk API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//     - multipart/form-data
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//     - bearer
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/civicdesk/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the health of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/complaints complaints listComplaints
// Lists complaints, newest first. Residents only ever see their own.
// responses:
//   200: complaintsResponse

// swagger:response complaintsResponse
type complaintsResponseWrapper struct {
	// in:body
	Body []models.Complaint
}

// swagger:route POST /api/v1/complaints complaints createComplaint
// Submits a new complaint. It always starts Pending.
// responses:
//   201: complaintResponse
//   429: errorResponse

// swagger:parameters createComplaint
type createComplaintParams struct {
	// in:body
	Body models.CreateComplaintRequest
}

// swagger:route PATCH /api/v1/complaints/{complaint_id}/status complaints updateComplaintStatus
// Moves a complaint to another status. Admin only.
// responses:
//   200: complaintResponse
//   404: errorResponse

// swagger:parameters updateComplaintStatus
type updateComplaintStatusParams struct {
	// in:path
	ComplaintID string `json:"complaint_id"`
	// in:body
	Body models.UpdateComplaintStatusRequest
}

// swagger:response complaintResponse
type complaintResponseWrapper struct {
	// in:body
	Body models.Complaint
}

// swagger:route GET /api/v1/dashboard/overview dashboard overviewStatistics
// Community wide statistics. Admin only.
// responses:
//   200: statisticsResponse

// swagger:route GET /api/v1/dashboard/resident dashboard residentStatistics
// Statistics for the caller's own complaints.
// responses:
//   200: statisticsResponse

// swagger:response statisticsResponse
type statisticsResponseWrapper struct {
	// in:body
	Body models.StatisticsSnapshot
}

// swagger:route GET /api/v1/announcements announcements listAnnouncements
// Lists announcements, pinned first.
// responses:
//   200: announcementsResponse

// swagger:response announcementsResponse
type announcementsResponseWrapper struct {
	// in:body
	Body []models.Announcement
}

// swagger:route GET /api/v1/reports reports listReports
// Lists generated reports. Admin only.
// responses:
//   200: reportsResponse

// swagger:response reportsResponse
type reportsResponseWrapper struct {
	// in:body
	Body []models.Report
}

// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body struct {
		Response string `json:"response"`
	}
}
