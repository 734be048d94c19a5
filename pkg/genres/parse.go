package genres

// ParseList extracts genre names from a raw metadata field.
//
// A nil raw means the cell held no text. Nil, blank, undecodable input, or a
// decoded value that is not a list all yield an empty, non-nil slice. Only
// list elements that are records with a non-empty string "name" contribute;
// order follows the input and duplicates are kept.
func ParseList(raw *string) []string {
	names := []string{}
	if raw == nil || IsBlank(*raw) {
		return names
	}

	switch v := Parse(*raw).(type) {
	case List:
		for _, item := range v {
			rec, ok := item.(Record)
			if !ok {
				continue
			}
			if name, ok := rec.Name(); ok {
				names = append(names, name)
			}
		}
	case Record, Scalar, Opaque:
	}
	return names
}

// ParseText is ParseList for a cell known to hold text.
func ParseText(raw string) []string {
	return ParseList(&raw)
}
