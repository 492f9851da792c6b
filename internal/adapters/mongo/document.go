package mongo_adapter

import (
	"time"

	"github.com/mmcloughlin/geohash"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contracts"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

const geohashPrecision = 9

// toDocument copies the payload, drops keys the repository owns and stamps
// every located property with its geohash.
func toDocument(data map[string]any) bson.M {
	doc := bson.M{}
	for k, v := range data {
		switch k {
		case contracts.KeyID, "id", contracts.KeyCreatedAt, contracts.KeyUpdatedAt, contracts.KeyHijriDate:
			continue
		}
		doc[k] = v
	}
	if props, ok := doc[contracts.KeyProperties]; ok {
		doc[contracts.KeyProperties] = withGeohash(props)
	}
	return doc
}

func withGeohash(props any) any {
	var items []map[string]any
	switch list := props.(type) {
	case []map[string]any:
		items = list
	case []any:
		items = make([]map[string]any, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return props
			}
			items = append(items, m)
		}
	default:
		return props
	}

	out := make([]any, len(items))
	for i, item := range items {
		p := make(map[string]any, len(item)+1)
		for k, v := range item {
			p[k] = v
		}
		delete(p, "geohash")
		lat, latOK := toFloat(item["latitude"])
		lon, lonOK := toFloat(item["longitude"])
		if latOK && lonOK {
			p["geohash"] = geohash.EncodeWithPrecision(lat, lon, geohashPrecision)
		}
		out[i] = p
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func recordFromDocument(kind domain.EntityKind, doc bson.M) *domain.Record {
	rec := &domain.Record{Kind: kind}
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	rec.CreatedAt = toTime(doc[contracts.KeyCreatedAt])
	rec.UpdatedAt = toTime(doc[contracts.KeyUpdatedAt])

	data := make(map[string]any, len(doc))
	for k, v := range doc {
		switch k {
		case "_id", contracts.KeyCreatedAt, contracts.KeyUpdatedAt:
			continue
		}
		data[k] = normalize(v)
	}
	rec.Data = data
	return rec
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	}
	return time.Time{}
}

// normalize converts driver types into plain JSON-friendly values.
func normalize(v any) any {
	switch val := v.(type) {
	case bson.M:
		return normalizeMap(val)
	case map[string]any:
		return normalizeMap(val)
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	case int32:
		return int64(val)
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}
