package marketdata

// Provider response shapes. These are decoded at the gateway boundary and
// passed through to the client unmodified, so the JSON tags mirror the
// providers' field names.

// Quote is a real-time quote for one symbol.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// CompanyProfile is the profile2 payload for one symbol.
type CompanyProfile struct {
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
	IPO                  string  `json:"ipo"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Name                 string  `json:"name"`
	Phone                string  `json:"phone"`
	ShareOutstanding     float64 `json:"shareOutstanding"`
	Ticker               string  `json:"ticker"`
	WebURL               string  `json:"weburl"`
	Logo                 string  `json:"logo"`
	Industry             string  `json:"finnhubIndustry"`
}

// NewsArticle is one company-news item.
type NewsArticle struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// RecommendationTrend is one month of analyst recommendation counts.
type RecommendationTrend struct {
	Buy        int64  `json:"buy"`
	Hold       int64  `json:"hold"`
	Period     string `json:"period"`
	Sell       int64  `json:"sell"`
	StrongBuy  int64  `json:"strongBuy"`
	StrongSell int64  `json:"strongSell"`
	Symbol     string `json:"symbol"`
}

// insiderSentimentResponse is the raw insider-sentiment payload.
type insiderSentimentResponse struct {
	Data   []insiderSentimentRow `json:"data"`
	Symbol string                `json:"symbol"`
}

type insiderSentimentRow struct {
	Symbol string  `json:"symbol"`
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Change float64 `json:"change"`
	MSPR   float64 `json:"mspr"`
}

// SentimentSummary aggregates the insider-sentiment rows into the six sums
// the client renders.
type SentimentSummary struct {
	PositiveMsprSum   float64 `json:"positiveMsprSum"`
	NegativeMsprSum   float64 `json:"negativeMsprSum"`
	TotalMsprSum      float64 `json:"totalMsprSum"`
	PositiveChangeSum float64 `json:"positiveChangeSum"`
	NegativeChangeSum float64 `json:"negativeChangeSum"`
	TotalChangeSum    float64 `json:"totalChangeSum"`
}

// EarningsSurprise is one quarterly EPS actual-vs-estimate row.
type EarningsSurprise struct {
	Actual          float64 `json:"actual"`
	Estimate        float64 `json:"estimate"`
	Period          string  `json:"period"`
	Quarter         int     `json:"quarter"`
	Surprise        float64 `json:"surprise"`
	SurprisePercent float64 `json:"surprisePercent"`
	Symbol          string  `json:"symbol"`
	Year            int     `json:"year"`
}

// searchResponse is the raw symbol-lookup payload.
type searchResponse struct {
	Count  int64          `json:"count"`
	Result []searchResult `json:"result"`
}

type searchResult struct {
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// TickerMatch is one search hit after filtering to plain common stocks.
type TickerMatch struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// Aggregates is the historical-bars payload for one symbol and range.
type Aggregates struct {
	Ticker       string         `json:"ticker"`
	QueryCount   int64          `json:"queryCount"`
	ResultsCount int64          `json:"resultsCount"`
	Adjusted     bool           `json:"adjusted"`
	Results      []AggregateBar `json:"results"`
	Status       string         `json:"status"`
	RequestID    string         `json:"request_id"`
	Count        int64          `json:"count"`
}

// AggregateBar is one OHLCV bar.
type AggregateBar struct {
	Volume       float64 `json:"v"`
	VWAP         float64 `json:"vw"`
	Open         float64 `json:"o"`
	Close        float64 `json:"c"`
	High         float64 `json:"h"`
	Low          float64 `json:"l"`
	Timestamp    int64   `json:"t"`
	Transactions int64   `json:"n"`
}
