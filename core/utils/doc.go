// Package utils holds the loose scalar conversions used when turning parsed
// scene documents and decoded JSON into typed attribute values.
package utils
