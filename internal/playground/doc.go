// Package playground holds the sample view models used by the CLI demos, the
// interactive playground and the bridge server.
//
// The view models cover both observable variants. CreatePersonViewModel keeps
// its own fields and uses SetField; MainViewModel, SaveViewModel and the small
// models under it keep their values in an observable.Store;
// PersonListingViewModel declares no relationships at all and raises its
// signals by hand.
//
// Shared state that the view models would otherwise reach through globals
// (the person directory and the main navigator) is carried by App.
package playground
