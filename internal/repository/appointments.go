package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan9191/finance-forecast/internal/models"
)

// AppointmentsInRange returns appointments dated in [start, end]
func (r *Repository) AppointmentsInRange(ctx context.Context, profileID int64, start, end time.Time) ([]models.Appointment, error) {
	query := `
		SELECT id, profile_id, title, description, location, client_id, date
		FROM finance.appointments
		WHERE profile_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var list []models.Appointment
	for rows.Next() {
		var (
			a        models.Appointment
			clientID sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Title, &a.Description, &a.Location, &clientID, &a.Date); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		a.ClientID = nullableID(clientID)
		a.Date = a.Date.In(r.loc)
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	return list, nil
}
