package models

// StatisticsSnapshot holds the server-computed dashboard counts. Clients treat it
// as an opaque aggregate and never derive it from the lists they hold.
type StatisticsSnapshot struct {
	TotalComplaints    int64 `json:"totalComplaints" bson:"totalComplaints"`
	ResolvedComplaints int64 `json:"resolvedComplaints" bson:"resolvedComplaints"`
	PendingComplaints  int64 `json:"pendingComplaints" bson:"pendingComplaints"`
	Announcements      int64 `json:"announcements" bson:"announcements"`
	Users              int64 `json:"users" bson:"users"`
}
