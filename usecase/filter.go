package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Innayatullahh/skydragon-test/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// filterKeys maps query parameter names onto stored keys. Both the API names
// and the stored names are accepted.
var filterKeys = map[string]string{
	"_id":           "_id",
	"id":            "_id",
	"agenda":        "agenda",
	"attendees":     "attendes",
	"attendes":      "attendes",
	"attendeesLead": "attendesLead",
	"attendesLead":  "attendesLead",
	"location":      "location",
	"related":       "related",
	"dateTime":      "dateTime",
	"notes":         "notes",
	"createdBy":     "createBy",
	"createBy":      "createBy",
	"deleted":       "deleted",
}

var objectIDKeys = map[string]bool{
	"_id":          true,
	"attendes":     true,
	"attendesLead": true,
	"createBy":     true,
}

// BuildListFilter turns query parameters into an equality filter. Repeated
// parameters match any of their values. Operator keys and blank related
// values are ignored, and the deleted flag is always forced to false.
func BuildListFilter(params url.Values) (bson.M, error) {
	filter := bson.M{}

	for key, values := range params {
		if strings.HasPrefix(key, "$") || len(values) == 0 {
			continue
		}

		field, ok := filterKeys[key]
		if !ok {
			field = key
		}
		if field == "deleted" {
			continue
		}

		converted := make([]interface{}, 0, len(values))
		for _, v := range values {
			// an unset related is never stored, so it cannot be matched
			if field == "related" && strings.TrimSpace(v) == "" {
				continue
			}
			value, err := filterValue(field, v)
			if err != nil {
				return nil, err
			}
			converted = append(converted, value)
		}

		switch len(converted) {
		case 0:
			continue
		case 1:
			filter[field] = converted[0]
		default:
			filter[field] = bson.M{"$in": converted}
		}
	}

	filter["deleted"] = false
	return filter, nil
}

func filterValue(field, raw string) (interface{}, error) {
	switch {
	case objectIDKeys[field]:
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			return nil, validationError("%s: %q is not a valid id", field, raw)
		}
		return id, nil
	case field == "related":
		related, err := model.ParseRelated(raw)
		if err != nil {
			return nil, validationError("related: %v", err)
		}
		// Older documents store the lower-case form.
		return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(string(related)) + "$", Options: "i"}, nil
	default:
		return raw, nil
	}
}
