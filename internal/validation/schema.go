package validation

// manifestSchema は投入マニフェストの構造検証に使う JSON Schema です。
// 型と必須項目の検査までをスキーマが受け持ち、項目間の整合性は
// Validator の意味検証が受け持ちます。
const manifestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://schemas.diginative.eu/game-manifest.json",
  "type": "object",
  "required": ["gameId", "metadata", "scenes"],
  "properties": {
    "gameId": { "type": "string", "minLength": 1 },
    "metadata": {
      "type": "object",
      "required": ["title"],
      "properties": {
        "title": { "type": "string", "minLength": 1 },
        "description": { "type": "string" },
        "duration": { "type": "integer", "minimum": 0 },
        "learningObjectives": { "type": "array", "items": { "type": "string" } },
        "targetAudience": { "type": "string" },
        "language": { "type": "string" },
        "version": { "type": "string" }
      }
    },
    "scenes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type", "content"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "type": { "enum": ["dialogue", "quiz", "assessment"] },
          "title": { "type": "string" },
          "content": { "type": "object" }
        }
      }
    }
  }
}`
