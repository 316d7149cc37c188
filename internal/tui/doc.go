// Package tui implements the interactive terminal interface for aidline.
//
// The interface is built with Bubble Tea and is organized as a small modal
// stack on top of a home screen:
//
//   - AppModel (app.go) is the coordinator. It owns the home screen and
//     decides which modal is visible. Result modals (progress, success,
//     failure) always take input priority.
//   - FormModel (form.go) is the modal request form: caller name, phone,
//     emergency type, location, and an optional description. Validation runs
//     at submit and paints inline errors; a failed validation emits nothing.
//     ctrl+g fills the location field from the geolocation service.
//   - styles.go holds the shared palette, the full-screen application
//     container, and the centered modal overlay renderer.
//
// The submission lifecycle is: the form emits SubmitMsg, the app shows the
// blocking progress modal and calls the dispatch client off the update loop,
// and submitCompleteMsg selects the success or failure modal. Success resets
// and closes the form; failure keeps the form and its draft so the user can
// retry, and names the fallback emergency number.
package tui
