package routes

import (
	"care-connect/authentication"
	"care-connect/controllers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Controllers groups the handler sets the router wires up.
type Controllers struct {
	User    *controllers.UserController
	Booking *controllers.BookingController
	Payment *controllers.PaymentController
	Doctor  *controllers.DoctorController
	Admin   *controllers.AdminController
}

// SetupRoutes builds the Gin engine with all API endpoints.
func SetupRoutes(ctrl Controllers) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.String(200, "API is Working")
	})

	// User routes
	user := r.Group("/api/user")
	{
		user.POST("/register", ctrl.User.PatientRegister)
		user.POST("/verify-otp", ctrl.User.VerifyRegistration)
		user.POST("/login", ctrl.User.PatientLogin)

		// Gateway callback, hit by the payment provider and not the app
		user.POST("/payment/verify", ctrl.Payment.VerifyPayment)
		user.GET("/payment/verify", ctrl.Payment.VerifyPayment)

		auth := user.Group("")
		auth.Use(authentication.PatientAuthMiddleware())
		{
			auth.GET("/get-profile", ctrl.User.GetProfile)
			auth.POST("/update-profile", ctrl.User.UpdateProfile)
			auth.POST("/book-appointment", ctrl.Booking.BookAppointment)
			auth.GET("/list-appointment", ctrl.Booking.ListAppointments)
			auth.POST("/cancel-appointment", ctrl.Booking.CancelAppointment)
			auth.POST("/payment/initiate", ctrl.Payment.InitiatePayment)
		}
	}

	// Doctor routes
	doctor := r.Group("/api/doctor")
	{
		doctor.GET("/list", ctrl.Doctor.DoctorList)
		doctor.POST("/login", ctrl.Doctor.DoctorLogin)

		auth := doctor.Group("")
		auth.Use(authentication.DoctorAuthMiddleware())
		{
			auth.POST("/change-availability", ctrl.Doctor.ChangeAvailability)
			auth.GET("/appointments", ctrl.Doctor.Appointments)
			auth.POST("/cancel-appointment", ctrl.Doctor.CancelAppointment)
		}
	}

	// Admin routes
	admin := r.Group("/api/admin")
	{
		admin.POST("/login", ctrl.Admin.AdminLogin)

		auth := admin.Group("")
		auth.Use(authentication.AdminAuthMiddleware())
		{
			auth.POST("/add-doctor", ctrl.Admin.AddDoctor)
			auth.GET("/all-doctors", ctrl.Admin.AllDoctors)
			auth.POST("/change-availability", ctrl.Admin.ChangeAvailability)
			auth.GET("/appointments", ctrl.Admin.Appointments)
			auth.POST("/cancel-appointment", ctrl.Admin.CancelAppointment)
			auth.GET("/dashboard", ctrl.Admin.Dashboard)
		}
	}

	return r
}
