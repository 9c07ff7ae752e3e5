package main

import (
	"care-connect/authentication"
	"care-connect/configuration"
	"care-connect/controllers"
	"care-connect/ledger"
	"care-connect/media"
	"care-connect/payment"
	"care-connect/routes"
)

func main() {
	cfg := configuration.Load()

	db := configuration.ConfigDB(cfg)
	configuration.InitRedis(cfg)
	authentication.Configure(cfg.PatientJWTKey, cfg.DoctorJWTKey, cfg.AdminJWTKey)

	slotLedger := ledger.New(db)
	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.PaymentCallback)
	store := media.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	verifier := authentication.NewTwilioVerifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioServiceSID)

	r := routes.SetupRoutes(routes.Controllers{
		User:    &controllers.UserController{OTP: verifier, Media: store},
		Booking: &controllers.BookingController{Ledger: slotLedger, Cfg: cfg},
		Payment: &controllers.PaymentController{Ledger: slotLedger, Gateway: gateway, Cfg: cfg},
		Doctor:  &controllers.DoctorController{Ledger: slotLedger},
		Admin:   &controllers.AdminController{Cfg: cfg, Ledger: slotLedger, Media: store},
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		panic(err)
	}
}
