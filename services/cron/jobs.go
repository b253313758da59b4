package cron

import (
	"fmt"
	"time"

	"github.com/elevateacademy/portal-api/model"
)

// ExpireStalePayments marks pending payment claims older than 72 hours as
// expired and mirrors the status onto the owning user record.
func (m *CronManager) ExpireStalePayments() {
	jobName := "expire_stale_payments"
	logID := m.logJobStart(jobName)
	cutoff := time.Now().Add(-72 * time.Hour)

	var stale []model.Payment
	err := m.db.
		Where("status = ? AND created_at < ?", model.PaymentPending, cutoff).
		Find(&stale).Error
	if err != nil {
		m.logJobError(logID, jobName, err)
		return
	}

	if len(stale) == 0 {
		m.logJobComplete(logID, jobName, "no stale payments")
		return
	}

	expired := 0
	for _, payment := range stale {
		err := m.db.Model(&model.Payment{}).
			Where("id = ? AND status = ?", payment.ID, model.PaymentPending).
			Updates(map[string]interface{}{
				"status":     model.PaymentExpired,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			m.logJobError(logID, jobName, err)
			return
		}

		// Only mirror onto the user when no newer claim superseded this one.
		var newer int64
		m.db.Model(&model.Payment{}).
			Where("user_id = ? AND id != ? AND status IN ?", payment.UserID, payment.ID,
				[]string{model.PaymentPending, model.PaymentVerified}).
			Count(&newer)
		if newer == 0 {
			m.db.Model(&model.User{}).
				Where("id = ? AND payment_status = ?", payment.UserID, model.PaymentPending).
				Update("payment_status", model.PaymentExpired)
		}

		expired++
	}

	m.logJobComplete(logID, jobName, fmt.Sprintf("expired %d payments", expired))
}

// RecomputeCourseCounters reconciles the denormalized enrollment_count and
// rating columns on every course from the source tables. Writes between
// reconciliation runs leave the counters stale on purpose.
func (m *CronManager) RecomputeCourseCounters() {
	jobName := "recompute_course_counters"
	logID := m.logJobStart(jobName)

	var courses []model.Course
	if err := m.db.Find(&courses).Error; err != nil {
		m.logJobError(logID, jobName, err)
		return
	}

	updated := 0
	for _, course := range courses {
		var enrollments int64
		err := m.db.Model(&model.Enrollment{}).
			Where("course_id = ?", course.ID).
			Count(&enrollments).Error
		if err != nil {
			m.logJobError(logID, jobName, err)
			return
		}

		// Course rating averages the approved reviews of enrolled members.
		var avg *float64
		err = m.db.Model(&model.Review{}).
			Joins("JOIN enrollments ON enrollments.user_id = reviews.user_id AND enrollments.course_id = ?", course.ID).
			Where("reviews.status = ?", model.ModerationApproved).
			Select("AVG(reviews.rating)").
			Scan(&avg).Error
		if err != nil {
			m.logJobError(logID, jobName, err)
			return
		}

		rating := 0.0
		if avg != nil {
			rating = *avg
		}

		if course.EnrollmentCount == int(enrollments) && course.Rating == rating {
			continue
		}

		err = m.db.Model(&model.Course{}).
			Where("id = ?", course.ID).
			Updates(map[string]interface{}{
				"enrollment_count": enrollments,
				"rating":           rating,
			}).Error
		if err != nil {
			m.logJobError(logID, jobName, err)
			return
		}
		updated++
	}

	m.logJobComplete(logID, jobName, fmt.Sprintf("reconciled %d of %d courses", updated, len(courses)))
}

// CleanupOldLogs removes cron job logs older than 30 days.
func (m *CronManager) CleanupOldLogs() {
	jobName := "cleanup_old_logs"
	logID := m.logJobStart(jobName)
	cutoff := time.Now().AddDate(0, 0, -30)

	result := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(logID, jobName, result.Error)
		return
	}

	m.logJobComplete(logID, jobName, fmt.Sprintf("deleted %d old logs", result.RowsAffected))
}
