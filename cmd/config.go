package cmd

type Config struct {
	HTTPPort             string
	DBHost               string
	DBPort               string
	DBUser               string
	DBPassword           string
	DBName               string
	DBSslMode            string
	PaymentAPIBaseURL    string
	PaymentSecretKey     string
	PaymentWebhookSecret string
}
