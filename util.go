package xrplsale

// IntPtr is a convenience helper for optional int fields.
func IntPtr(v int) *int { return &v }

// BoolPtr is a convenience helper for optional boolean fields.
func BoolPtr(b bool) *bool { return &b }

// StringPtr is a convenience helper for optional string fields.
func StringPtr(s string) *string { return &s }
