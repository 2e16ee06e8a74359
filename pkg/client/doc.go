/*
Package client implements the REST client for the delivery backend.

Three endpoints back a tracking session:

	GET /iot/live/{orderId}                              live GPS/temperature snapshot
	GET /stability/config/{orderId}                      cold-chain budget, fetched once
	GET /patient/{nationalId}/notifications?order_id=    order-scoped alerts

Every call is bounded by a short timeout and authenticated with a
bearer token when one is configured. Responses may be partial: the
live endpoint in particular omits any field the hardware has not
reported yet, and the client maps absent fields to nil pointers so
callers can keep their last-known-good values.

No retries happen here. Components are polled on a fixed cadence and
the next tick is the retry.
*/
package client
