package currency

// fallbackRates is the compiled-in snapshot used when no cache exists, so
// conversions work offline on first run. Units per 1 USD.
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"TRY": 35.5,
	"GBP": 0.79,
	"JPY": 157.0,
	"CNY": 7.3,
	"RUB": 95.0,
	"AUD": 1.57,
	"CAD": 1.44,
	"CHF": 0.88,
	"INR": 84.0,
	"KRW": 1450.0,
	"BRL": 6.2,
	"MXN": 20.5,
	"PLN": 4.0,
	"SEK": 11.0,
	"NOK": 11.2,
	"DKK": 7.0,
	"SGD": 1.36,
	"HKD": 7.8,
	"NZD": 1.78,
	"ZAR": 18.5,
	"THB": 35.0,
	"AED": 3.67,
	"SAR": 3.75,
	"ALL": 95.0,

	"BTC":   0.000023,
	"ETH":   0.00043,
	"BNB":   0.0033,
	"XRP":   1.6,
	"ADA":   1.7,
	"SOL":   0.0095,
	"DOGE":  12.5,
	"DOT":   0.125,
	"MATIC": 1.1,
	"LTC":   0.014,
	"USDT":  1.0,
	"USDC":  1.0,
	"TRX":   5.0,
}

// FallbackRates returns a copy of the compiled-in snapshot.
func FallbackRates() map[string]float64 {
	out := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		out[code] = rate
	}
	return out
}

var cryptoSymbols = []string{
	"BTC", "ETH", "USDT", "USDC", "BNB", "XRP", "ADA",
	"DOGE", "SOL", "TRX", "DOT", "LTC", "MATIC",
}

// CryptoSymbols lists the coins refreshed from crypto price sources, in
// request order.
func CryptoSymbols() []string {
	out := make([]string, len(cryptoSymbols))
	copy(out, cryptoSymbols)
	return out
}
