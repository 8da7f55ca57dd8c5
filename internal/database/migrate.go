package database

import (
	"context"
	"database/sql"
)

// Migrate creates the engine's tables.  The critical piece is the
// unique key on seat_claims (showtime_id, seat_label): claim rows
// exist exactly while their booking is confirmed, so the key makes it
// impossible for two confirmed bookings to register the same seat for
// the same showtime regardless of how requests interleave.  The
// reservation path relies on the resulting duplicate-key error at
// commit time, not on its advisory read-time check.
//
// showtimes is owned by the catalog service; the table is created here
// only so a standalone deployment works out of the box.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS showtimes (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			movie_id BIGINT UNSIGNED NOT NULL,
			hall_id VARCHAR(8) NOT NULL,
			starts_at DATETIME NOT NULL,
			price_cents INT UNSIGNED NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_showtimes_movie (movie_id, starts_at)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NULL,
			showtime_id BIGINT UNSIGNED NOT NULL,
			seat_labels TEXT NOT NULL,
			total_price_cents INT UNSIGNED NOT NULL,
			status ENUM('confirmed','cancelled') NOT NULL DEFAULT 'confirmed',
			canceled_by ENUM('user','admin') NULL,
			payment_status ENUM('unpaid','pending','paid') NOT NULL DEFAULT 'unpaid',
			payment_ref VARCHAR(191) NULL,
			paid_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_bookings_showtime_status (showtime_id, status),
			KEY idx_bookings_user (user_id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS seat_claims (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT UNSIGNED NOT NULL,
			showtime_id BIGINT UNSIGNED NOT NULL,
			seat_label VARCHAR(8) NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_seat_claims_showtime_seat (showtime_id, seat_label),
			KEY idx_seat_claims_booking (booking_id),
			CONSTRAINT fk_seat_claims_booking FOREIGN KEY (booking_id)
				REFERENCES bookings(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
