package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonflow/salon-queue/internal/audit"
	"github.com/salonflow/salon-queue/internal/config"
	"github.com/salonflow/salon-queue/internal/handlers"
	infraRepo "github.com/salonflow/salon-queue/internal/infra/repository"
	"github.com/salonflow/salon-queue/internal/middleware"
	"github.com/salonflow/salon-queue/internal/realtime"
	ucBooking "github.com/salonflow/salon-queue/internal/usecase/booking"
	ucQueue "github.com/salonflow/salon-queue/internal/usecase/queue"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, bus *realtime.RedisBus, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewScheduleGormRepository(db)
	selector := ucQueue.NewSelector(repo, cfg.QueueCutoff)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var events realtime.Publisher = bus

	// ======================================================
	// USE CASES — QUEUE ENGINE
	// ======================================================
	arrivalUC := ucQueue.NewProcessCustomerArrival(
		repo,
		selector,
		auditDispatcher,
		events,
		cfg.ApprovalLeadMin,
	)

	finishUC := ucQueue.NewFinishAppointment(repo, auditDispatcher, events)
	acceptUC := ucQueue.NewAcceptCustomerCheckIn(repo, auditDispatcher, events)
	checkInUC := ucQueue.NewCheckInEmployee(repo, selector, auditDispatcher, events)
	checkOutUC := ucQueue.NewCheckOutEmployee(repo, auditDispatcher, events)
	breakUC := ucQueue.NewManageBreak(repo, auditDispatcher, events)

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(repo, selector, auditDispatcher, events)
	cancelBookingUC := ucBooking.NewCancelBooking(repo, auditDispatcher, events)
	listByDateUC := ucBooking.NewListAppointmentsByDate(repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	employeeHandler := handlers.NewEmployeeHandler(db, auditDispatcher)
	facilityHandler := handlers.NewFacilityHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)

	queueHandler := handlers.NewQueueHandler(db, arrivalUC)
	checkInHandler := handlers.NewCheckInHandler(checkInUC, checkOutUC, breakUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		finishUC,
		acceptUC,
		cancelBookingUC,
		listByDateUC,
	)
	bookingHandler := handlers.NewBookingHandler(createBookingUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", serviceHandler.PublicList)
			publicAPI.GET("/:slug/queue", queueHandler.PublicQueueStatus)
			publicAPI.POST("/:slug/arrivals", queueHandler.CustomerArrival)
			publicAPI.POST("/:slug/bookings", bookingHandler.Create)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE (STAFF)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", employeeHandler.GetMe)

			secured.GET("/me/facility", facilityHandler.GetMeFacility)
			secured.PATCH("/me/facility", facilityHandler.UpdateMeFacility)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			// ------------------------------
			// DAY QUEUE
			// ------------------------------
			secured.POST("/me/queue/check-in", checkInHandler.CheckIn)
			secured.POST("/me/queue/entries/:id/check-out", checkInHandler.CheckOut)
			secured.POST("/me/queue/break/start", checkInHandler.StartBreak)
			secured.POST("/me/queue/break/end", checkInHandler.EndBreak)
			secured.GET("/me/queue/waiting", queueHandler.WaitingCustomers)
			secured.GET("/me/queue/board", queueHandler.EmployeeQueueBoard)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.PATCH("/me/appointments/:id/accept", appointmentHandler.AcceptCheckIn)
			secured.PATCH("/me/appointments/:id/finish", appointmentHandler.Finish)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)

			// ------------------------------
			// DASHBOARD FEED
			// ------------------------------
			secured.GET("/me/events", handlers.NewEventsHandler(bus).Stream)

			// ------------------------------
			// MANAGEMENT
			// ------------------------------
			managers := secured.Group("/")
			managers.Use(middleware.RequireRole("manager", "receptionist"))
			{
				managers.GET("/me/employees", employeeHandler.List)
				managers.POST("/me/employees", employeeHandler.Create)
				managers.PATCH("/me/employees/:id/approve", employeeHandler.Approve)
				managers.GET("/me/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
