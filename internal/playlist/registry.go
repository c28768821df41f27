package playlist

// The kind registry is a closed set: adding a new item variant means
// adding a schema here and a field on Item. There is no dynamic
// registration.

// kindSchema describes the fields legal for one item variant beyond the
// shared base fields.
type kindSchema struct {
	required []string
	optional []string
}

// baseFields are shared by every variant and always legal.
var baseFields = map[string]bool{
	"title":        true,
	"addedContext": true,
	"addedAt":      true,
}

var kindSchemas = map[Kind]kindSchema{
	KindLink:   {required: []string{"url"}, optional: []string{"preview"}},
	KindText:   {required: []string{"content"}},
	KindVideo:  {required: []string{"url", "duration"}, optional: []string{"thumbnail"}},
	KindAudio:  {required: []string{"artist", "url", "duration"}, optional: []string{"albumArt"}},
	KindImage:  {required: []string{"image"}, optional: []string{"caption"}},
	KindSocial: {required: []string{"url"}},
}

// KnownKind reports whether k (after alias resolution) is a registered
// variant.
func KnownKind(k Kind) bool {
	_, ok := kindSchemas[CanonicalKind(k)]
	return ok
}

// fieldsOf maps JSON field names to whether the value is set on the item.
func fieldsOf(it *Item) map[string]bool {
	return map[string]bool{
		"url":       it.URL != "",
		"preview":   it.Preview != "",
		"content":   it.Content != "",
		"duration":  it.Duration != 0,
		"thumbnail": it.Thumbnail != "",
		"artist":    it.Artist != "",
		"albumArt":  it.AlbumArt != "",
		"image":     it.Image != "",
		"caption":   it.Caption != "",
	}
}

// legalFields returns the set of kind-specific field names legal for k.
func legalFields(k Kind) map[string]bool {
	s := kindSchemas[k]
	legal := make(map[string]bool, len(s.required)+len(s.optional))
	for _, f := range s.required {
		legal[f] = true
	}
	for _, f := range s.optional {
		legal[f] = true
	}
	return legal
}

// Validate checks an item against the schema for its kind: the kind must
// be registered, every required field must be set, and no field of a
// different kind may be present. Returns nil on success.
func Validate(it *Item) *SchemaViolation {
	kind := CanonicalKind(it.Type)
	schema, ok := kindSchemas[kind]
	if !ok {
		return violation("type", "unknown kind "+string(it.Type))
	}

	set := fieldsOf(it)
	legal := legalFields(kind)

	for _, f := range schema.required {
		if !set[f] {
			return violation(f, "required for kind "+string(kind))
		}
	}
	for f, isSet := range set {
		if isSet && !legal[f] {
			return violation(f, "not legal for kind "+string(kind))
		}
	}
	return nil
}

// ValidatePatchKeys checks that every key in a partial update is legal
// for the item's kind. "id" and "type" are rejected upstream since they
// are immutable; this guards the remaining keys.
func ValidatePatchKeys(kind Kind, keys []string) *SchemaViolation {
	legal := legalFields(CanonicalKind(kind))
	for _, k := range keys {
		if baseFields[k] || legal[k] {
			continue
		}
		return violation(k, "not legal for kind "+string(kind))
	}
	return nil
}
