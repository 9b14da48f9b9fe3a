package validation

const companyIDSchema = `{
  "type": "object",
  "properties": {
    "companyId": {"type": "string", "minLength": 1}
  },
  "required": ["companyId"]
}`

const batchSchema = `{
  "type": "object",
  "properties": {
    "asOf": {"type": "string", "format": "date-time"}
  }
}`

// TaskSchemas maps each task type to the schema its job variables must satisfy.
var TaskSchemas = map[string]string{
	"match-company":                companyIDSchema,
	"recalculate-compliance-score": companyIDSchema,
	"sync-alerts":                  companyIDSchema,
	"match-all-companies":          batchSchema,
	"process-all-alerts":           batchSchema,
	"explain-match": `{
  "type": "object",
  "properties": {
    "companyId": {"type": "string", "minLength": 1},
    "grantId":   {"type": "string", "minLength": 1},
    "maxTokens": {"type": "integer", "minimum": 50, "maximum": 2000}
  },
  "required": ["companyId", "grantId"]
}`,
}
