// Package ndpa answers questions about the Nigeria Data Protection Act by
// locating the best-matching section of the act and explaining it in plain
// English.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, http/).
package ndpa
