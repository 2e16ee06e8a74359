/*
Package log provides structured logging for coldtrack built on zerolog.

The embedding shell calls Init once with the desired level and output
format; tracking components then derive child loggers via
WithComponent, WithOrderID, and WithSessionID so every line carries the
context needed to follow one tracking session through the poll, route,
and countdown paths.
*/
package log
