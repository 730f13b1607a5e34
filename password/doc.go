// Package password validates candidate passwords against the local
// complexity policy and the public breached-password corpus.
//
// Policy violations and security warnings are kept separate on purpose:
// violations ([Policy.Validate]) are hard rules the caller must reject on,
// reported all at once so a form can render every hint simultaneously;
// warnings ([SecurityCheck]) are advisory signals from heuristics and the
// breach lookup.
//
// The breach lookup uses k-anonymity: only the first five hex characters of
// the candidate's SHA-1 ever leave the process. Any transport or service
// failure fails OPEN: an unreachable breach database must not lock
// legitimate users out.
//
// Password storage and verification are deliberately absent: hashing is
// delegated to the external identity provider.
package password
