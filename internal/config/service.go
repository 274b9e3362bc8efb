package config

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`

	// PublicBaseURL is this server's externally reachable base URL. The
	// processor delivers webhook notifications to PublicBaseURL + "/webhook".
	PublicBaseURL string `yaml:"public_base_url"`

	CoinPayments CoinPaymentsConfig `yaml:"coinpayments"`
	Funding      FundingConfig      `yaml:"funding"`
}

// CoinPaymentsConfig holds the merchant API credentials and endpoints.
type CoinPaymentsConfig struct {
	ClientID      string `yaml:"client_id"`
	ClientSecret  string `yaml:"client_secret"`
	InvoiceURL    string `yaml:"invoice_url"`
	WebhookSecret string `yaml:"webhook_secret"`

	// RequestTimeout bounds outbound invoice-creation calls, in seconds.
	RequestTimeout int `yaml:"request_timeout"`
}

// FundingConfig holds the invoice payload parameters fixed per deployment.
type FundingConfig struct {
	Currency            string `yaml:"currency"`
	CryptoCurrency      string `yaml:"crypto_currency"`
	ItemName            string `yaml:"item_name"`
	RefundEmailFallback string `yaml:"refund_email_fallback"`
	SuccessURL          string `yaml:"success_url"`
	CancelURL           string `yaml:"cancel_url"`
}
