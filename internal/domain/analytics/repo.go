package analytics

import "context"

// Repository aggregates raw counts; all windows are inclusive date strings
// (YYYY-MM-DD). A zero clinicID means all clinics.
type Repository interface {
	CountByStatus(ctx context.Context, clinicID int64, from, to string) (map[string]int, error)
	CountNewPatients(ctx context.Context, clinicID int64, from, to string) (int, error)
	Series(ctx context.Context, clinicID int64, from, to, granularity string) ([]SeriesPoint, error)
	ByDoctor(ctx context.Context, clinicID int64, from, to string) ([]DoctorBreakdown, error)
}
