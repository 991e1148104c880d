package types

// IngestInput names the local source files to validate and snapshot.
type IngestInput struct {
	CustomersPath string `json:"customersPath"`
	PurchasesPath string `json:"purchasesPath"`
}

// IngestOutput reports the validated row counts per source file.
type IngestOutput struct {
	CustomerRows int `json:"customerRows"`
	PurchaseRows int `json:"purchaseRows"`
}

// CleanOutput reports the surviving row counts and what was dropped.
type CleanOutput struct {
	Customers        int `json:"customers"`
	Purchases        int `json:"purchases"`
	CustomersDropped int `json:"customersDropped"`
	PurchasesDropped int `json:"purchasesDropped"`
	Orphans          int `json:"orphans"`
}

// AggregateOutput reports the size of each aggregate snapshot.
type AggregateOutput struct {
	Countries int `json:"countries"`
	Products  int `json:"products"`
	Months    int `json:"months"`
	Customers int `json:"customers"`
}

// ScoreOutput reports the scored population and per-model quality signals.
type ScoreOutput struct {
	Customers  int     `json:"customers"`
	Silhouette float64 `json:"silhouette"`
	ChurnF1    float64 `json:"churnF1"`
	ValueRMSE  float64 `json:"valueRmse"`
	ValueNote  string  `json:"valueNote"`
}

// PublishOutput reports what reached the document store.
type PublishOutput struct {
	Collections int `json:"collections"`
	Documents   int `json:"documents"`
}

// RunOutput summarizes a full pipeline run.
type RunOutput struct {
	Ingest    IngestOutput    `json:"ingest"`
	Clean     CleanOutput     `json:"clean"`
	Aggregate AggregateOutput `json:"aggregate"`
	Score     ScoreOutput     `json:"score"`
	Publish   PublishOutput   `json:"publish"`
}
