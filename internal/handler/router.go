package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/relieftech/marketplace-api/internal/middleware"
	"github.com/relieftech/marketplace-api/internal/models"
	"github.com/relieftech/marketplace-api/internal/service"
)

// Handlers bundles every HTTP handler mounted by the router.
type Handlers struct {
	Auth         *AuthHandler
	Teacher      *TeacherHandler
	School       *SchoolHandler
	Message      *MessageHandler
	Verification *VerificationHandler
	Country      *CountryHandler
	Enterprise   *EnterpriseHandler
	Subscription *SubscriptionHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the full HTTP surface. Role gating runs here, before
// any domain logic: teacher-only, school-only and admin-only groups.
func RegisterRoutes(r *gin.Engine, h Handlers, authService *service.AuthService) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	r.POST("/auth/login", h.Auth.Login)

	auth := middleware.JWT(authService)
	teacherOnly := middleware.RequireRoles(models.RoleTeacher)
	schoolOnly := middleware.RequireRoles(models.RoleSchool)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Phase 1: teacher registration and self-service.
	teachers := r.Group("/teachers")
	{
		teachers.POST("/register", h.Auth.RegisterTeacher)
		teachers.POST("/subscribe", auth, teacherOnly, h.Teacher.Subscribe)

		me := teachers.Group("/me", auth, teacherOnly)
		{
			me.GET("/profile", h.Teacher.Profile)
			me.GET("/location", h.Teacher.Location)
			me.GET("/availability", h.Teacher.WeeklyAvailability)
			me.GET("/subscription", h.Teacher.Subscription)
		}

		// Phase 2: calendar, notifications and boost.
		v2me := teachers.Group("/v2/me", auth, teacherOnly)
		{
			v2me.GET("/availability-calendar", h.Teacher.CalendarRange)
			v2me.PUT("/availability-calendar", h.Teacher.UpsertCalendar)
			v2me.GET("/notifications", h.Teacher.Notifications)
			v2me.POST("/notifications/:id/read", h.Teacher.ReadNotification)
			v2me.GET("/boost/status", h.Teacher.BoostStatus)
			v2me.POST("/boost/activate", h.Teacher.ActivateBoost)
		}
	}

	schools := r.Group("/schools")
	{
		schools.POST("/register", h.Auth.RegisterSchool)

		// Phase 1 discovery.
		schools.GET("/teachers", auth, schoolOnly, h.School.ListTeachers)
		schools.GET("/teachers/:teacherUserId", auth, schoolOnly, h.School.TeacherDetail)

		// Phase 2 discovery, favourites and notifications.
		v2 := schools.Group("/v2", auth, schoolOnly)
		{
			v2.GET("/teachers", h.School.ListTeachersV2)
			v2.GET("/teachers/:teacherUserId", h.School.TeacherDetailV2)
			v2.GET("/favourites", h.School.ListFavourites)
			v2.PUT("/favourites/:teacherUserId", h.School.AddFavourite)
			v2.DELETE("/favourites/:teacherUserId", h.School.RemoveFavourite)
			v2.GET("/me/notifications", h.School.Notifications)
			v2.POST("/me/notifications/:id/read", h.School.ReadNotification)
		}

		// Phase 3 country-aware discovery.
		v3 := schools.Group("/v3", auth, schoolOnly)
		{
			v3.GET("/teachers", h.School.ListTeachersV3)
			v3.GET("/teachers/:teacherUserId", h.School.TeacherDetailV3)
		}
	}

	v3 := r.Group("/v3")
	{
		v3.GET("/configs", auth, h.Country.List)

		admin := v3.Group("/admin", auth, adminOnly)
		{
			admin.POST("/configs", h.Country.Upsert)
			admin.PUT("/configs", h.Country.Upsert)
			admin.DELETE("/configs/:countryCode", h.Country.Delete)
		}

		messages := v3.Group("/messages", auth)
		{
			messages.POST("", h.Message.Send)
			messages.GET("/inbox", h.Message.Inbox)
			messages.GET("/sent", h.Message.Sent)
			messages.POST("/:id/read", h.Message.MarkRead)
		}

		teacherMe := v3.Group("/teacher/me", auth, teacherOnly)
		{
			teacherMe.GET("/credential-verifications", h.Verification.ListOwn)
			teacherMe.POST("/credential-verifications", h.Verification.Submit)
			teacherMe.GET("/subscription", h.Subscription.TeacherTier)
		}

		v3.POST("/credential-verifications/:id/decide", auth, adminOnly, h.Verification.Decide)
		v3.GET("/school/me/subscription", auth, schoolOnly, h.Subscription.SchoolTier)

		enterprise := v3.Group("/enterprise-schools", auth)
		{
			enterprise.POST("", adminOnly, h.Enterprise.Create)
			enterprise.GET("/:enterpriseSchoolId", h.Enterprise.Get)
			enterprise.PUT("/:enterpriseSchoolId/members/:schoolUserId", adminOnly, h.Enterprise.UpsertMember)
			enterprise.DELETE("/:enterpriseSchoolId/members/:schoolUserId", adminOnly, h.Enterprise.RemoveMember)
			enterprise.GET("/:enterpriseSchoolId/reports/summary", adminOnly, h.Enterprise.Summary)
			enterprise.POST("/:enterpriseSchoolId/notifications/batch", adminOnly, h.Enterprise.NotifyMembers)
		}
	}
}
