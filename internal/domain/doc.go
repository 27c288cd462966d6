// Package domain models US traffic accident report data.
//
// # Data Source
//
// Accident records originate from the "US Accidents" countrywide dataset
// (Kaggle: sobhanmoosavi/us-accidents), a single CSV covering accidents
// reported across the contiguous United States. The service loads the CSV
// once at startup, optionally capped to a configured row count, and holds
// the parsed records read-only for the lifetime of the process.
//
// # CSV Conventions
//
// Severity:
//
//	Ordinal impact rating 1-4, where 1 indicates the least impact on
//	traffic (short delay) and 4 the most (long delay). Values outside
//	1-4 are treated as corrupt and the row is skipped.
//
// Start_Time:
//
//	Local timestamp of when the accident began, e.g. "2020-03-14 08:15:00".
//	Newer dataset revisions append fractional seconds
//	("2021-01-01 00:00:00.000000000"); both forms are accepted.
//	The derived year and year-month drive the range filter and the
//	monthly trend aggregate.
//
// Weather measurements:
//
//	Visibility(mi), Temperature(F), and Wind_Speed(mph) are continuous
//	readings taken at the nearest airport weather station. Any row with
//	a missing or unparseable measurement is skipped rather than
//	zero-filled, so every retained record can participate in every
//	aggregate.
//
// State:
//
//	Two-letter USPS state code, e.g. "CA".
package domain
