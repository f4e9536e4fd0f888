package domain

import (
	"fmt"
	"strconv"

	"github.com/vfg2006/rokt-tap/pkg/utils"
)

const (
	StreamCampaignsBreakdown = "campaigns_breakdown"

	FieldCampaignID   = "campaign_id"
	FieldCampaignName = "campaign_name"
	FieldDate         = "date"
	FieldDatetime     = "datetime"
	FieldReferrals    = "referrals"
	FieldImpressions  = "impressions"
)

// MetricNames são as métricas solicitadas à API, na ordem enviada na consulta
var MetricNames = []string{
	"impressions",
	"referrals",
	"gross_cost",
	"net_cost",
	"click_thru_acquisitions",
	"click_thru_acquisitions_by_conversion_time",
	"view_thru_acquisitions_by_conversion_time",
	"acquisitions_by_conversion_time",
	"click_thru_conversions",
	"click_thru_conversions_by_conversion_time",
	"view_thru_conversions_by_conversion_time",
	"view_thru_acquisitions",
	"view_thru_conversions",
	"acquisitions",
	"conversions",
	"conversions_by_conversion_time",
	"unique_creatives",
	"unique_campaigns",
	"unique_audiences",
	"unique_campaign_countries",
	"click_thru_conversion_value",
	"acquisitions_value",
	"conversion_value",
	"view_thru_acquisitions_value",
	"view_thru_conversion_value",
	"click_thru_acquisition_value",
}

// KeyProperties identificam unicamente um registro do stream
var KeyProperties = []string{FieldCampaignID, FieldDate}

// MetricRecord é uma linha (campanha, dia) retornada pela API, reduzida às
// propriedades declaradas no schema e acrescida do campo date.
type MetricRecord map[string]any

var declaredFields = func() map[string]struct{} {
	fields := make(map[string]struct{}, len(MetricNames)+3)
	for name := range CampaignsBreakdownSchema().Properties {
		fields[name] = struct{}{}
	}
	return fields
}()

// NewMetricRecord valida um elemento do array data. Retorna false para
// placeholders vazios, campaign_id nulo/ausente ou datetime sem data válida.
func NewMetricRecord(raw any) (MetricRecord, bool) {
	fields, ok := raw.(map[string]any)
	if !ok || len(fields) == 0 {
		return nil, false
	}

	if campaignID, exists := fields[FieldCampaignID]; !exists || campaignID == nil {
		return nil, false
	}

	datetime, ok := fields[FieldDatetime].(string)
	if !ok {
		return nil, false
	}
	date, ok := utils.DatePart(datetime)
	if !ok {
		return nil, false
	}

	record := make(MetricRecord, len(declaredFields))
	for k, v := range fields {
		if _, declared := declaredFields[k]; declared {
			record[k] = v
		}
	}
	record[FieldDate] = date

	return record, true
}

// CampaignID retorna o identificador da campanha como string
func (r MetricRecord) CampaignID() string {
	return stringValue(r[FieldCampaignID])
}

func (r MetricRecord) CampaignName() string {
	return stringValue(r[FieldCampaignName])
}

func (r MetricRecord) Date() string {
	return stringValue(r[FieldDate])
}

// Number retorna o valor numérico de uma métrica. Strings numéricas também
// são aceitas, já que a API às vezes serializa valores monetários como texto.
func (r MetricRecord) Number(field string) (float64, bool) {
	switch v := r[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Metrics retorna apenas as métricas declaradas no schema que vieram no registro
func (r MetricRecord) Metrics() map[string]float64 {
	metrics := make(map[string]float64, len(MetricNames))
	for _, name := range MetricNames {
		if v, ok := r.Number(name); ok {
			metrics[name] = v
		}
	}
	return metrics
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
