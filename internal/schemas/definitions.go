package schemas

// jobProfileSchema constrains job profile documents loaded at run start.
// A profile failing this check is a run-level error.
const jobProfileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["titles"],
  "properties": {
    "name": {"type": "string"},
    "titles": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "level": {"type": "string"},
    "industries": {"type": "array", "items": {"type": "string"}},
    "must_have_skills": {"type": "array", "items": {"type": "string"}},
    "nice_to_have_skills": {"type": "array", "items": {"type": "string"}},
    "min_avg_tenure_months": {"type": "integer", "minimum": 0},
    "min_last_tenure_months": {"type": "integer", "minimum": 0},
    "skills_text_blob": {"type": "string"},
    "recency_horizon_months": {"type": "integer", "minimum": 0},
    "bonus_signals": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "keywords"],
        "properties": {
          "name": {"type": "string"},
          "keywords": {"type": "array", "items": {"type": "string"}},
          "weight": {"type": "number", "minimum": 0}
        }
      }
    },
    "weights": {
      "type": "object",
      "additionalProperties": {"type": "number", "minimum": 0}
    }
  }
}`

// candidateRecordSchema constrains one JSONL manifest row. Deliberately
// loose: only candidate_id is required, and unknown date strings are
// accepted because date coercion degrades them to null downstream.
const candidateRecordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["candidate_id"],
  "properties": {
    "candidate_id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "email": {"type": "string"},
    "resume_text": {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "notes": {"type": "string"},
    "stints": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "company": {"type": "string"},
          "title": {"type": "string"},
          "industry_tags": {"type": "array", "items": {"type": "string"}},
          "start": {"type": "string"},
          "end": {"type": "string"}
        }
      }
    }
  }
}`
