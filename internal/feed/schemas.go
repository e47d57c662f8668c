package feed

const participantJoinedSchema = `{
  "type": "object",
  "title": "ParticipantJoined",
  "properties": {
    "event_id": {"type": "string"},
    "activity": {"type": "string"},
    "email": {"type": "string"},
    "spots_left": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["event_id", "activity", "email", "spots_left", "occurred_at"],
  "additionalProperties": false
}`

const participantLeftSchema = `{
  "type": "object",
  "title": "ParticipantLeft",
  "properties": {
    "event_id": {"type": "string"},
    "activity": {"type": "string"},
    "email": {"type": "string"},
    "spots_left": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["event_id", "activity", "email", "spots_left", "occurred_at"],
  "additionalProperties": false
}`
