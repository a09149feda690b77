// Package onboarding brings a freshly loaded puzzle page to a known baseline.
//
// Onboard clears the consent interstitial, enters the game through the Play
// control and returns a handle to the help dialog. SkipHelp closes that
// dialog, after which the board accepts input. Every step blocks until the
// element it needs is interactable, and the steps never run out of order.
package onboarding
