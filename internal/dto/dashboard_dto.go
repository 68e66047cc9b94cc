package dto

// AdminDashboardResponse aggregates studio-wide totals for administrators.
type AdminDashboardResponse struct {
	TotalUsers         int64                 `json:"total_users"`
	TotalAdmins        int64                 `json:"total_admins"`
	TotalPhotographers int64                 `json:"total_photographers"`
	TotalClients       int64                 `json:"total_clients"`
	TotalAlbums        int64                 `json:"total_albums"`
	TotalPhotos        int64                 `json:"total_photos"`
	BookingsByStatus   map[string]int64      `json:"bookings_by_status"`
	RecentActivity     []ActivityLogResponse `json:"recent_activity"`
}

// PhotographerDashboardResponse aggregates a photographer's own counts.
type PhotographerDashboardResponse struct {
	AlbumsCount   int64            `json:"albums_count"`
	PhotosCount   int64            `json:"photos_count"`
	BookingCounts map[string]int64 `json:"booking_counts"`
}
