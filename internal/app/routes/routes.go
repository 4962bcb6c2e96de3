package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/akshat/campuspay/internal/app/controllers"
	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	studentController *controllers.StudentController,
	paymentController *controllers.PaymentController,
	feeController *controllers.FeeController,
	webhookController *controllers.WebhookController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// Gateway webhooks authenticate with their own HMAC signature, not JWT
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/razorpay", webhookController.HandleRazorpayWebhook)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		// Student self-service: payments and own ledger
		studentOnly := authenticated.Group("")
		studentOnly.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			studentOnly.POST("/payments/order", paymentController.CreateOrder)
			studentOnly.POST("/payments/verify", paymentController.VerifyPayment)
			studentOnly.GET("/payments/me", feeController.MyPayments)
			studentOnly.GET("/fees/me", feeController.MyFees)
			studentOnly.GET("/fees/status", feeController.FeeStatus)
		}

		// Admin management surface
		adminOnly := authenticated.Group("")
		adminOnly.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			adminOnly.POST("/auth/admins", authController.CreateAdmin)

			courses := adminOnly.Group("/courses")
			{
				courses.POST("", courseController.CreateCourse)
				courses.GET("", courseController.ListCourses)
				courses.GET("/:courseCode", courseController.GetCourse)
				courses.DELETE("/:courseCode", courseController.DeleteCourse)
			}

			semesterFees := adminOnly.Group("/semester-fees")
			{
				semesterFees.POST("", courseController.CreateSemesterFee)
				semesterFees.GET("", courseController.ListSemesterFees)
				semesterFees.PUT("", courseController.UpdateSemesterFee)
				semesterFees.DELETE("/:courseCode/:semester", courseController.DeleteSemesterFee)
			}

			students := adminOnly.Group("/students")
			{
				students.POST("", studentController.CreateStudent)
				students.GET("", studentController.ListStudents)
				students.GET("/:id", studentController.GetStudent)
				students.PUT("/:id", studentController.UpdateStudent)
				students.DELETE("/:id", studentController.DeleteStudent)
				students.PUT("/:id/fees", studentController.OverrideStudentFee)
			}
		}
	}
}
