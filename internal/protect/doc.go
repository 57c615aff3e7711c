// Package protect is the client for the external protection service.
//
// The service applies up to three independent protection layers to an
// image (cryptographic signing, binary shielding, AI cloaking) and issues
// an authenticity certificate per protected asset.
//
// # Submission
//
// ProtectImage posts the file and the user's identity as a multipart
// request, together with the selected layer toggles. A non-2xx status
// becomes a *ServiceError carrying the body's detail message when one is
// present. Successful responses are normalized into a Result: relative
// asset paths are made absolute against the service address, and absent
// optional scores take fixed defaults so a partially populated backend
// response still yields a usable result.
//
// # Verification
//
// Verify looks up a content hash and returns a closed Outcome: either a
// verified record or one of two fixed failure reasons, distinguishing a
// structured rejection ("hash not found or invalid") from a transport
// failure ("verification failed").
//
// Neither call is retried; retry is always a fresh user action.
package protect
