// Package spotify provides a small client for the Spotify Web API player
// and library endpoints.
//
// # Overview
//
// The client covers what a remote-control surface needs: reading the current
// playback state and the recently played history, issuing transport commands
// (play, pause, skip, shuffle, repeat, volume) and toggling the saved state of
// a track. Authentication uses a long-lived refresh token; access tokens are
// obtained and renewed automatically.
//
// # Quick Start
//
//	client, err := spotify.NewClient(spotify.Config{
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	    RefreshToken: "refresh-token",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	state, err := client.Player().CurrentPlayback(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if state != nil && state.Item != nil {
//	    fmt.Println(state.Item.Name)
//	}
//
// # Devices
//
// Player commands target the session device id when one is set. Callers that
// poll the playback state should adopt the reported device with SetDeviceID so
// later commands reach the device that is actually playing.
//
// # Errors
//
// Non-2xx responses are returned as *Error carrying the HTTP status, the
// message and the optional reason from the API error object. An expired access
// token is refreshed once and the request retried transparently.
package spotify
