package dto

import "time"

type AppointmentListDTO struct {
	ID           uint      `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name"`
	EmployeeName string    `json:"employee_name"`
	ServiceName  string    `json:"service_name"`
	Price        float64   `json:"price"`
	IsPaid       bool      `json:"is_paid"`
	ComboID      string    `json:"combo_id,omitempty"`
}
