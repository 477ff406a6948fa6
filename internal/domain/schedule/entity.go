package schedule

import (
	"time"

	"github.com/salonflow/salon-queue/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Start(ap *models.Appointment, now time.Time) error {
	if err := CanStart(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusInProgress)
	ap.ArrivalTime = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time, finalPrice float64) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	ap.EndTime = now
	if finalPrice > 0 {
		ap.Price = finalPrice
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}
