package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"helmetwatch.xyz/alert-console/pkg/models"
)

// DecodeSnapshot reads a full alert snapshot. Both a JSON array and an object
// keyed by alert id are accepted; in the keyed form the key fills a missing id.
func DecodeSnapshot(payload []byte) ([]models.Alert, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var alerts []models.Alert
		if err := json.Unmarshal(trimmed, &alerts); err != nil {
			return nil, fmt.Errorf("decode alert list: %w", err)
		}
		return alerts, nil
	case '{':
		var keyed map[string]models.Alert
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, fmt.Errorf("decode keyed alerts: %w", err)
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		alerts := make([]models.Alert, 0, len(keys))
		for _, k := range keys {
			alert := keyed[k]
			if alert.ID == "" {
				alert.ID = k
			}
			alerts = append(alerts, alert)
		}
		return alerts, nil
	default:
		return nil, fmt.Errorf("alert snapshot must be a JSON array or object, got %q", trimmed[0])
	}
}

// Unacknowledged keeps the alerts with acknowledged == false, in order.
func Unacknowledged(alerts []models.Alert) []models.Alert {
	pending := make([]models.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if !alert.Acknowledged {
			pending = append(pending, alert)
		}
	}
	return pending
}

// sortByTimestamp orders alerts oldest first, id breaking ties.
func sortByTimestamp(alerts []models.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Timestamp != alerts[j].Timestamp {
			return alerts[i].Timestamp < alerts[j].Timestamp
		}
		return alerts[i].ID < alerts[j].ID
	})
}
