// Package fallback bundles the default run resources substituted when a
// live fetch fails or fails shape validation. The payloads are a small
// logistics sample so the dashboard stays demonstrable offline.
package fallback

import (
	"github.com/cognicore/lens/pkg/lens/provider"
	"github.com/cognicore/lens/pkg/lens/schema"
)

// Bundle returns a fresh copy of the bundled defaults. Each call builds a
// new value so callers can never corrupt the shared constant.
func Bundle() provider.Bundle {
	return provider.Bundle{
		Metrics:      metrics(),
		Dimensions:   dimensions(),
		Rows:         rows(),
		Insights:     insights(),
		Correlations: correlations(),
		Intelligence: intelligence(),
	}
}

func metrics() []provider.MetricSpec {
	return []provider.MetricSpec{
		{ID: "total_revenue", Title: "Total Revenue", Formula: "SUM(revenue)", Unit: "SAR", TimeColumn: "order_date"},
		{ID: "avg_cod_rate", Title: "Average COD Rate", Formula: "AVG(kpi_cod_rate)", TimeColumn: "order_date"},
		{ID: "max_delivery_days", Title: "Max Delivery Days", Formula: "MAX(delivery_days)", Unit: "days", TimeColumn: "order_date"},
	}
}

func dimensions() provider.DimensionsCatalog {
	return provider.DimensionsCatalog{
		Date: []provider.Dimension{
			{Name: "order_date", Label: "{'en': 'Order Date', 'ar': 'تاريخ الطلب'}"},
		},
		Numeric: []provider.Dimension{
			{Name: "revenue", Label: "{'en': 'Revenue', 'ar': 'الإيرادات'}"},
			{Name: "kpi_cod_rate", Label: "{'en': 'COD Rate', 'ar': 'نسبة الدفع عند الاستلام'}"},
			{Name: "delivery_days", Label: "{'en': 'Delivery Days', 'ar': 'أيام التوصيل'}"},
		},
		Categorical: []provider.Dimension{
			{Name: "destination", Label: "{'en': 'Destination', 'ar': 'الوجهة'}"},
			{Name: "payment_method", Label: "{'en': 'Payment Method', 'ar': 'طريقة الدفع'}"},
			{Name: "status", Label: "{'en': 'Status', 'ar': 'الحالة'}"},
		},
		Bool: []provider.Dimension{
			{Name: "delivered", Label: "{'en': 'Delivered', 'ar': 'تم التوصيل'}"},
		},
	}
}

func rows() []schema.Row {
	type shipment struct {
		date    string
		dest    string
		payment string
		status  string
		revenue float64
		codRate float64
		days    float64
		done    bool
	}
	shipments := []shipment{
		{"2024-01-02", "جدة", "COD", "Delivered", 420, 0.72, 2, true},
		{"2024-01-02", "الرياض", "CC", "Delivered", 310, 0.18, 3, true},
		{"2024-01-03", "جدة", "CC", "In Transit", 150, 0.22, 4, false},
		{"2024-01-03", "الدمام", "COD", "Delivered", 275, 0.64, 2, true},
		{"2024-01-04", "الرياض", "COD", "Returned", 95, 0.81, 6, false},
		{"2024-01-04", "جدة", "Wallet", "Delivered", 505, 0.12, 1, true},
		{"2024-01-05", "مكة", "COD", "Delivered", 180, 0.59, 3, true},
		{"2024-01-05", "الرياض", "CC", "In Transit", 260, 0.15, 5, false},
		{"2024-01-06", "الدمام", "CC", "Delivered", 340, 0.2, 2, true},
		{"2024-01-06", "جدة", "COD", "Delivered", 410, 0.7, 2, true},
		{"2024-01-07", "مكة", "Wallet", "Returned", 60, 0.1, 7, false},
		{"2024-01-07", "الرياض", "COD", "Delivered", 220, 0.66, 3, true},
	}

	out := make([]schema.Row, 0, len(shipments))
	for _, s := range shipments {
		out = append(out, schema.Row{
			"order_date":     schema.String(s.date),
			"destination":    schema.String(s.dest),
			"payment_method": schema.String(s.payment),
			"status":         schema.String(s.status),
			"revenue":        schema.Number(s.revenue),
			"kpi_cod_rate":   schema.Number(s.codRate),
			"delivery_days":  schema.Number(s.days),
			"delivered":      schema.Bool(s.done),
		})
	}
	return out
}

func insights() []provider.Insight {
	return []provider.Insight{
		{ID: "ins-cod-jeddah", Kind: "trend", Text: "COD rate in Jeddah is trending above the network average", Dimension: "destination", Value: "جدة", Score: 0.82},
		{ID: "ins-returns", Kind: "anomaly", Text: "Returned shipments doubled week over week", Dimension: "status", Value: "Returned", Score: 0.67},
	}
}

func correlations() []provider.CorrelationPair {
	return []provider.CorrelationPair{
		{A: "kpi_cod_rate", B: "delivery_days", Coefficient: 0.54},
		{A: "revenue", B: "delivery_days", Coefficient: -0.31},
	}
}

func intelligence() provider.Intelligence {
	return provider.Intelligence{
		Network: provider.Network{
			Nodes: []provider.NetworkNode{
				{ID: "jeddah", Label: "جدة", Score: 0.91},
				{ID: "riyadh", Label: "الرياض", Score: 0.84},
				{ID: "dammam", Label: "الدمام", Score: 0.52},
				{ID: "makkah", Label: "مكة", Score: 0.37},
			},
			Links: []provider.FlowLink{
				{Source: "الرياض", Target: "جدة", Value: 48},
				{Source: "جدة", Target: "الدمام", Value: 21},
			},
		},
		Flows: []provider.FlowLink{
			{Source: "Warehouse", Target: "جدة", Value: 120},
			{Source: "Warehouse", Target: "الرياض", Value: 95},
			{Source: "جدة", Target: "Returned", Value: 14},
		},
		Anomalies: []provider.Anomaly{
			{Timestamp: "2024-01-04", Label: "Returned", Severity: 0.8},
			{Timestamp: "2024-01-07", Label: "Returned", Severity: 0.6},
		},
		Forecast: []provider.ForecastSeries{
			{Name: "revenue", Points: []provider.ForecastPoint{
				{Timestamp: "2024-01-08", Value: 2950},
				{Timestamp: "2024-01-09", Value: 3100},
				{Timestamp: "2024-01-10", Value: 3240},
			}},
			{Name: "kpi_cod_rate", Points: []provider.ForecastPoint{
				{Timestamp: "2024-01-08", Value: 0.44},
				{Timestamp: "2024-01-09", Value: 0.41},
			}},
		},
	}
}
