// Package integrity signs grading results into portable tokens and later
// checks a document's annotations against the token it carries.
//
// A token is an HS256 JWT whose claims hold every checkpoint of a Result
// plus its overall grade. Any change to the token text or a different
// secret makes Decode fail with SECURITY_FAILURE.
package integrity
