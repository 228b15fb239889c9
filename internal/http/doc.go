// Package http provides HTTP handlers and middleware for the studio
// scheduler API.
//
// The router exposes the following endpoints:
//   - GET /users, POST /users, GET /users/{id}: team directory endpoints
//     exchanging the `userDTO` payload defined in user_handler.go.
//   - GET /users/{id}/availability: the user's full availability record,
//     defaulting to weekday 09:00-17:00 when none is stored.
//   - PUT /users/{id}/availability/range: inclusive date-range update of
//     availability, optionally attaching a note and recurrence.
//   - DELETE /users/{id}/availability: reset to the default record.
//   - GET /users/{id}/availability/days/{date}: resolved details for one day.
//   - POST /users/{id}/availability/slots, DELETE
//     /users/{id}/availability/slots/{slotId}: unavailable slot management;
//     the delete accepts `?recurring=true` to remove the whole series.
//   - POST /meetings: schedules a confirmed meeting and notifies invitees.
//   - POST /meetings/conflicts: explicit conflict check for a set of
//     invitees and a time window.
//   - GET /users/{id}/calendar?start=...&end=...: merged feed of persisted
//     events and availability projections.
//   - GET /users/{id}/notifications: stored notifications, newest first.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
