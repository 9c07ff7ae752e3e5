package configuration

import (
	"care-connect/models"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds every external setting the service needs. It is loaded once at
// startup and handed to the components that need it, so handlers never read
// the process environment directly.
type Config struct {
	Port string
	DSN  string

	AdminEmail    string
	AdminPassword string

	PatientJWTKey string
	DoctorJWTKey  string
	AdminJWTKey   string

	RedisAddr     string
	RedisPassword string

	RazorpayKeyID     string
	RazorpayKeySecret string
	PaymentSuccessURL string
	PaymentFailureURL string
	PaymentCallback   string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioServiceSID string

	SMTPEmail    string
	SMTPPassword string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
}

// Load reads .env (if present) and builds the Config from the environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	return &Config{
		Port:              getEnvOrDefault("PORT", "8000"),
		DSN:               os.Getenv("DB"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		PatientJWTKey:     os.Getenv("PATIENT_JWT_KEY"),
		DoctorJWTKey:      os.Getenv("DOCTOR_JWT_KEY"),
		AdminJWTKey:       os.Getenv("ADMIN_JWT_KEY"),
		RedisAddr:         getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		PaymentSuccessURL: getEnvOrDefault("PAYMENT_SUCCESS_URL", "http://localhost:3000/payment/success"),
		PaymentFailureURL: getEnvOrDefault("PAYMENT_FAILURE_URL", "http://localhost:3000/payment/failure"),
		PaymentCallback:   getEnvOrDefault("PAYMENT_CALLBACK_URL", "http://localhost:8000/api/user/payment/verify"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTHTOKEN"),
		TwilioServiceSID:  os.Getenv("TWILIO_SERVICE_SID"),
		SMTPEmail:         os.Getenv("Email"),
		SMTPPassword:      os.Getenv("Password"),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseKey:       os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:    getEnvOrDefault("SUPABASE_BUCKET", "care-connect-images"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// hold connectioin to db
var DB *gorm.DB

// ConfigDB initializes the database connection and migrates the schema.
func ConfigDB(cfg *Config) *gorm.DB {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to the database")
	}

	DB.AutoMigrate(
		&models.Doctor{},
		&models.Patient{},
		&models.Appointment{},
		&models.BookedSlot{},
	)

	return DB
}
