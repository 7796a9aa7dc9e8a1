package router

import (
	"time"

	"hostelhub/config"
	"hostelhub/internal/domain"
	"hostelhub/internal/handler"
	"hostelhub/internal/middleware"
	"hostelhub/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func Setup(cfg *config.Config, svc *Services, hub *ws.Hub, rdb *redis.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Server.Env == "development" {
		r.Use(gin.Logger())
	}
	var limiter middleware.Limiter = middleware.NewInMemoryRateLimiter(cfg.RateLimit.PerMinute, time.Minute)
	if rdb != nil {
		limiter = middleware.NewRedisRateLimiter(rdb, cfg.RateLimit.PerMinute, time.Minute)
	}
	r.Use(middleware.RateLimit(limiter))

	authHandler := handler.NewAuthHandler(svc.Auth)
	hostelHandler := handler.NewHostelHandler(svc.Hostels)
	feeHandler := handler.NewFeeHandler(svc.UOW, svc.Fees, svc.FeeConfig, svc.Clock)
	scheduleHandler := handler.NewScheduleHandler(svc.UOW, svc.Billing)
	paymentHandler := handler.NewPaymentHandler(svc.UOW, svc.Payments, svc.Clock)
	referralHandler := handler.NewReferralHandler(svc.UOW, svc.Referrals, svc.Commission)
	bookingHandler := handler.NewBookingHandler(svc.UOW, svc.Bookings, svc.Commission)
	waitlistHandler := handler.NewWaitlistHandler(svc.UOW, svc.Waitlist, svc.Clock)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		// Read-only lookups are public.
		api.GET("/hostels", hostelHandler.List)
		api.GET("/hostels/:id", hostelHandler.Get)
		api.GET("/hostels/:id/fee-structures", feeHandler.ListForHostel)
		api.GET("/hostels/:id/fee-details", feeHandler.FeeDetails)
		api.GET("/hostels/:id/fee-configuration", feeHandler.Configuration)
		api.GET("/hostels/:id/fee-estimate", feeHandler.Estimate)
		api.GET("/fee-structures/:id", feeHandler.Get)
		api.GET("/referral-programs", referralHandler.ListPrograms)
		api.GET("/referral-programs/:id", referralHandler.GetProgram)

		staff := api.Group("")
		staff.Use(middleware.AuthRequired(&cfg.JWT), middleware.RequireRole(domain.RoleAdmin, domain.RoleWarden))
		{
			staff.POST("/hostels", hostelHandler.Create)

			staff.POST("/fee-structures", feeHandler.Create)
			staff.PATCH("/fee-structures/:id", feeHandler.Update)
			staff.POST("/fee-structures/:id/deactivate", feeHandler.Deactivate)
			staff.POST("/fee-structures/:id/supersede", feeHandler.Supersede)

			staff.POST("/payment-schedules", scheduleHandler.Create)
			staff.GET("/payment-schedules/:id", scheduleHandler.Get)
			staff.PATCH("/payment-schedules/:id", scheduleHandler.Update)
			staff.POST("/payment-schedules/:id/deactivate", scheduleHandler.Deactivate)
			staff.POST("/payment-schedules/:id/generate", scheduleHandler.Generate)
			staff.GET("/students/:id/payment-schedules", scheduleHandler.ListForStudent)

			staff.GET("/payments/:id", paymentHandler.Get)
			staff.GET("/students/:id/payments", paymentHandler.ListForStudent)
			staff.POST("/payments/:id/process", paymentHandler.Process)
			staff.POST("/payments/:id/complete", paymentHandler.Complete)
			staff.POST("/payments/:id/fail", paymentHandler.Fail)
			staff.POST("/payments/:id/refund", paymentHandler.Refund)
			staff.GET("/hostels/:id/payment-analytics", paymentHandler.Analytics)
			staff.GET("/hostels/:id/overdue-payments", paymentHandler.Overdue)

			staff.POST("/referral-programs", referralHandler.CreateProgram)
			staff.POST("/referrals", referralHandler.Create)
			staff.GET("/referrals/:id", referralHandler.Get)
			staff.GET("/referrers/:id/referrals", referralHandler.ListByReferrer)
			staff.POST("/referrals/:id/recalculate", referralHandler.Recalculate)
			staff.PUT("/referrals/:id/referrer-reward-status", referralHandler.SetReferrerRewardStatus)
			staff.PUT("/referrals/:id/referee-reward-status", referralHandler.SetRefereeRewardStatus)

			staff.POST("/bookings", bookingHandler.Create)
			staff.GET("/bookings/:id", bookingHandler.Get)
			staff.POST("/bookings/:id/confirm", bookingHandler.Confirm)
			staff.POST("/bookings/:id/commission", bookingHandler.ProcessCommission)

			staff.POST("/waitlist", waitlistHandler.Add)
			staff.POST("/waitlist/:id/notify", waitlistHandler.Notify)
			staff.POST("/waitlist/:id/convert", waitlistHandler.Convert)
			staff.POST("/waitlist/:id/cancel", waitlistHandler.Cancel)
			staff.GET("/hostels/:id/waitlist", waitlistHandler.ListForHostel)
		}
	}

	r.GET("/ws/waitlist", ws.UpgradeWaitlistWS(&cfg.JWT, hub))

	return r
}
