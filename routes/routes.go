package routes

import (
	"salonbook-backend/auth"
	"salonbook-backend/config"
	"salonbook-backend/controllers"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger, tokens *auth.TokenIssuer) *gin.Engine {
	utils.RegisterJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(log))

	booking := services.NewBookingService(db, log, cfg.RejectDoubleBooking)
	admin := services.NewAdminService(db, log, tokens)

	authController := &controllers.AuthController{
		Accounts: services.NewAccountService(db, log, tokens),
		Admin:    admin,
		Log:      log,
	}
	appointmentController := &controllers.AppointmentController{
		Booking:  booking,
		Payments: services.NewPaymentService(db, log),
		Log:      log,
	}
	scheduleController := &controllers.ScheduleController{
		Availability: services.NewAvailabilityService(db, log),
		Log:          log,
	}
	reportController := &controllers.ReportController{
		Reports:  services.NewReportService(db, log),
		Expenses: services.NewExpenseService(db, log),
		Log:      log,
	}
	staffController := &controllers.StaffController{Staff: services.NewStaffService(db, log), Log: log}
	customerController := &controllers.CustomerController{DB: db, Log: log}
	serviceController := &controllers.ServiceController{DB: db, Log: log}
	productController := &controllers.ProductController{DB: db, Log: log}
	dashboardController := &controllers.DashboardController{DB: db, Log: log}
	profileController := &controllers.ProfileController{DB: db, Log: log}
	adminController := &controllers.AdminController{Admin: admin, Log: log}
	publicController := &controllers.PublicController{Booking: booking, Log: log}

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)

		authGroup.Use(auth.Middleware(tokens))
		authGroup.GET("/me", authController.Me)
		authGroup.POST("/impersonation/leave", authController.LeaveImpersonation)
	}

	api := r.Group("/api")
	api.Use(auth.Middleware(tokens), auth.Require(auth.SalonMember))
	manager := auth.Require(auth.SalonManager)
	{
		appointments := api.Group("/appointments")
		{
			appointments.GET("", appointmentController.List)
			appointments.GET("/upcoming", appointmentController.Upcoming)
			appointments.GET("/:id", appointmentController.Get)
			appointments.POST("", appointmentController.Create)
			appointments.PUT("/:id", appointmentController.Update)
			appointments.DELETE("/:id", appointmentController.Delete)
			appointments.POST("/:id/complete", appointmentController.Complete)
		}

		workingHours := api.Group("/working-hours")
		{
			workingHours.GET("", scheduleController.ListWorkingHours)
			workingHours.POST("", scheduleController.CreateWorkingHour)
			workingHours.PUT("/bulk", scheduleController.ReplaceWorkingHours)
			workingHours.PUT("/:id", scheduleController.UpdateWorkingHour)
			workingHours.DELETE("/:id", scheduleController.DeleteWorkingHour)
		}

		timeOffs := api.Group("/time-offs")
		{
			timeOffs.GET("", scheduleController.ListTimeOffs)
			timeOffs.POST("", scheduleController.CreateTimeOff)
			timeOffs.PUT("/:id", scheduleController.UpdateTimeOff)
			timeOffs.DELETE("/:id", scheduleController.DeleteTimeOff)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", customerController.CreateCustomer)
			customers.GET("", customerController.GetCustomers)
			customers.GET("/:id", customerController.GetCustomer)
			customers.PUT("/:id", customerController.UpdateCustomer)
			customers.DELETE("/:id", manager, customerController.DeleteCustomer)
		}

		catalog := api.Group("/services")
		{
			catalog.GET("", serviceController.GetServices)
			catalog.GET("/:id", serviceController.GetService)
			catalog.POST("", manager, serviceController.CreateService)
			catalog.PUT("/:id", manager, serviceController.UpdateService)
			catalog.DELETE("/:id", manager, serviceController.DeleteService)
		}

		products := api.Group("/products", manager)
		{
			products.POST("", productController.CreateProduct)
			products.GET("", productController.GetProducts)
			products.GET("/:id", productController.GetProduct)
			products.PUT("/:id", productController.UpdateProduct)
			products.DELETE("/:id", productController.DeleteProduct)
		}

		staff := api.Group("/staff", manager)
		{
			staff.GET("", staffController.GetStaff)
			staff.POST("", staffController.AddStaff)
			staff.PUT("/:id", staffController.UpdateStaff)
			staff.DELETE("/:id", staffController.DeleteStaff)
		}

		api.GET("/reports", manager, reportController.GetReport)

		expenses := api.Group("/expenses", manager)
		{
			expenses.GET("", reportController.ListExpenses)
			expenses.POST("", reportController.CreateExpense)
			expenses.PUT("/:id", reportController.UpdateExpense)
			expenses.DELETE("/:id", reportController.DeleteExpense)
		}

		api.GET("/dashboard", dashboardController.GetDashboardOverview)

		profile := api.Group("/profile")
		{
			profile.GET("", profileController.GetProfile)
			profile.PUT("", manager, profileController.UpdateProfile)
			profile.PUT("/opening-hours", manager, profileController.UpdateOpeningHours)
		}
	}

	adminGroup := r.Group("/admin")
	adminGroup.Use(auth.Middleware(tokens), auth.Require(auth.PlatformAdmin))
	{
		adminGroup.GET("/dashboard", adminController.Dashboard)

		plans := adminGroup.Group("/plans")
		{
			plans.GET("", adminController.ListPlans)
			plans.POST("", adminController.CreatePlan)
			plans.PUT("/:id", adminController.UpdatePlan)
			plans.DELETE("/:id", adminController.DeletePlan)
		}

		salons := adminGroup.Group("/salons")
		{
			salons.GET("", adminController.ListSalons)
			salons.PUT("/:id", adminController.UpdateSalon)
			salons.DELETE("/:id", adminController.DeleteSalon)
			salons.POST("/:id/impersonate", adminController.Impersonate)
		}
	}

	public := r.Group("/public/salons/:subdomain")
	{
		public.GET("", publicController.GetSalon)
		public.POST("/appointments", publicController.Book)
	}

	return r
}
