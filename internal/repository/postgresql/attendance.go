package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dor-app/dor-backend-go/internal/domain/attendance"
	"github.com/dor-app/dor-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.user_id, to_char(a.date, 'YYYY-MM-DD'),
	a.check_in, a.check_out,
	a.check_in_branch_id, a.check_in_branch_name, a.check_in_latitude, a.check_in_longitude, a.check_in_distance_m,
	a.check_out_branch_id, a.check_out_branch_name, a.check_out_latitude, a.check_out_longitude, a.check_out_distance_m,
	a.created_at, a.updated_at, u.name
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var inID, inName *string
	var inLat, inLng, inDist *float64
	var outID, outName *string
	var outLat, outLng, outDist *float64

	err := row.Scan(
		&att.ID, &att.UserID, &att.Date,
		&att.CheckIn, &att.CheckOut,
		&inID, &inName, &inLat, &inLng, &inDist,
		&outID, &outName, &outLat, &outLng, &outDist,
		&att.CreatedAt, &att.UpdatedAt, &att.UserName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if inID != nil {
		att.CheckInSnapshot = &attendance.BranchSnapshot{
			BranchID:       *inID,
			BranchName:     derefString(inName),
			Latitude:       derefFloat(inLat),
			Longitude:      derefFloat(inLng),
			DistanceMeters: derefFloat(inDist),
		}
	}
	if outID != nil {
		att.CheckOutSnapshot = &attendance.BranchSnapshot{
			BranchID:       *outID,
			BranchName:     derefString(outName),
			Latitude:       derefFloat(outLat),
			Longitude:      derefFloat(outLng),
			DistanceMeters: derefFloat(outDist),
		}
	}

	return att, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// CheckIn implements attendance.AttendanceRepository. The row lock plus the
// unique (user_id, date) constraint guarantee at most one successful
// check-in per key: of two racing transactions, the one losing the insert
// race observes a unique violation and reports ErrAlreadyCheckedIn.
func (a *attendanceRepository) CheckIn(ctx context.Context, userID, date string, snapshot attendance.BranchSnapshot) (attendance.Attendance, error) {
	var recordID string

	err := WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		var existingID string
		var hasCheckIn bool
		err := tx.QueryRow(ctx, `
			SELECT id, check_in IS NOT NULL
			FROM attendance_records
			WHERE user_id = $1 AND date = $2
			FOR UPDATE
		`, userID, date).Scan(&existingID, &hasCheckIn)

		switch {
		case err == nil:
			if hasCheckIn {
				return attendance.ErrAlreadyCheckedIn
			}
			// A record without a check-in cannot normally exist; merge into
			// it rather than failing on the unique key.
			recordID = existingID
			_, err = tx.Exec(ctx, `
				UPDATE attendance_records
				SET check_in = NOW(),
					check_in_branch_id = $2, check_in_branch_name = $3,
					check_in_latitude = $4, check_in_longitude = $5, check_in_distance_m = $6,
					updated_at = NOW()
				WHERE id = $1
			`, recordID, snapshot.BranchID, snapshot.BranchName, snapshot.Latitude, snapshot.Longitude, snapshot.DistanceMeters)
			if err != nil {
				return fmt.Errorf("failed to merge check-in: %w", err)
			}
			return nil

		case errors.Is(err, pgx.ErrNoRows):
			recordID = uuid.NewString()
			_, err = tx.Exec(ctx, `
				INSERT INTO attendance_records (
					id, user_id, date, check_in,
					check_in_branch_id, check_in_branch_name,
					check_in_latitude, check_in_longitude, check_in_distance_m,
					created_at, updated_at
				) VALUES ($1, $2, $3, NOW(), $4, $5, $6, $7, $8, NOW(), NOW())
			`, recordID, userID, date, snapshot.BranchID, snapshot.BranchName, snapshot.Latitude, snapshot.Longitude, snapshot.DistanceMeters)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
					// Lost the race against a concurrent check-in.
					return attendance.ErrAlreadyCheckedIn
				}
				return fmt.Errorf("failed to insert attendance record: %w", err)
			}
			return nil

		default:
			return fmt.Errorf("failed to read attendance record: %w", err)
		}
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	return a.GetByID(ctx, recordID)
}

// CheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckOut(ctx context.Context, userID, date string, snapshot attendance.BranchSnapshot) (attendance.Attendance, error) {
	var recordID string

	err := WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		var hasCheckIn, hasCheckOut bool
		err := tx.QueryRow(ctx, `
			SELECT id, check_in IS NOT NULL, check_out IS NOT NULL
			FROM attendance_records
			WHERE user_id = $1 AND date = $2
			FOR UPDATE
		`, userID, date).Scan(&recordID, &hasCheckIn, &hasCheckOut)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrNoCheckInFound
			}
			return fmt.Errorf("failed to read attendance record: %w", err)
		}

		if !hasCheckIn {
			return attendance.ErrNotCheckedInYet
		}
		if hasCheckOut {
			return attendance.ErrAlreadyCheckedOut
		}

		_, err = tx.Exec(ctx, `
			UPDATE attendance_records
			SET check_out = NOW(),
				check_out_branch_id = $2, check_out_branch_name = $3,
				check_out_latitude = $4, check_out_longitude = $5, check_out_distance_m = $6,
				updated_at = NOW()
			WHERE id = $1
		`, recordID, snapshot.BranchID, snapshot.BranchName, snapshot.Latitude, snapshot.Longitude, snapshot.DistanceMeters)
		if err != nil {
			return fmt.Errorf("failed to write check-out: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	return a.GetByID(ctx, recordID)
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID, date string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1 AND a.date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No record for this day yet
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	list := attendance.ListFilter{
		Page:     filter.Page,
		Limit:    filter.Limit,
		UserID:   &userID,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	}
	return a.List(ctx, list)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.BranchID != nil {
		where += fmt.Sprintf(" AND a.check_in_branch_id = $%d", argIdx)
		args = append(args, *filter.BranchID)
		argIdx++
	}
	if filter.DateFrom != nil {
		where += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		where += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records a WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN users u ON u.id = a.user_id
		WHERE ` + where + `
		ORDER BY a.date DESC, a.check_in DESC
	` + fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, att)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, total, nil
}
