package booking

import (
	"context"
	"time"

	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/dto"
	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	facilityID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	facility, err := uc.repo.GetFacilityByID(ctx, facilityID)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}

	dayStart, err := time.ParseInLocation(
		"2006-01-02",
		date,
		timezone.Location(facility.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	apps, err := uc.repo.ListAppointmentsForPeriod(ctx, facilityID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, dto.AppointmentListDTO{
			ID:           ap.ID,
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			Status:       ap.Status,
			CustomerName: ap.CustomerName,
			EmployeeName: ap.Employee.Name,
			ServiceName:  ap.Service.Name,
			Price:        ap.Price,
			IsPaid:       ap.IsPaid,
			ComboID:      ap.ComboID,
		})
	}
	return out, nil
}
