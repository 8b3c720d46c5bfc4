package mailer

import (
	"fmt"
	"time"
)

// Subjects for the verification mails.
const (
	SubjectVerify   = "Kindly verify your email."
	SubjectReverify = "Verify Your Email Again - MatchMate"
	SubjectExpired  = "Verify Your MatchMate Account"
)

// WelcomeEmail builds the HTML body of the first verification mail sent
// right after signup.
func WelcomeEmail(firstName, verifyLink string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; background-color: #fff0f0; padding: 20px; text-align: center; border-radius: 10px;">
  <h2 style="color: #e63946;">Welcome to MatchMate, %s!</h2>
  <p style="color: #333; font-size: 16px;">
    You've taken the first step toward finding meaningful connections.
    To unlock the full experience, verify your email by clicking the button below:
  </p>
  <a href="%s" style="display: inline-block; padding: 12px 24px; font-size: 18px; background-color: #e63946; color: white; text-decoration: none; border-radius: 5px; font-weight: bold;">Verify Your Email</a>
  <p style="color: #555; font-size: 14px;">If you didn't sign up for MatchMate, you can safely ignore this email.</p>
  <p style="color: #777; font-size: 14px;">&copy; %d MatchMate. Where love begins.</p>
</div>`, firstName, verifyLink, time.Now().Year())
}

// ExpiredLinkEmail builds the HTML body sent when a verification link has
// expired and a fresh one is issued.
func ExpiredLinkEmail(firstName, verifyLink string) string {
	return fmt.Sprintf(`
<div style="text-align: center; padding: 20px; font-family: Arial, sans-serif;">
  <h2 style="color: #e63946;">Hello, %s!</h2>
  <p>Your previous verification link has expired, so here is a new one.</p>
  <p>Click the button below to verify your email:</p>
  <a href="%s" style="background-color: #e63946; color: white; padding: 12px 24px; text-decoration: none; font-size: 16px; font-weight: bold; border-radius: 8px; display: inline-block;">Verify My Email</a>
</div>`, firstName, verifyLink)
}

// ReverifyEmail builds the HTML body for an explicitly requested resend.
func ReverifyEmail(firstName, verifyLink string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; background-color: #fff0f5; padding: 20px; text-align: center; border-radius: 10px;">
  <h2 style="color: #e63946;">Verify Your MatchMate Account</h2>
  <p>Hello %s,</p>
  <p>Click the button below to verify your email and start your journey.</p>
  <a href="%s" style="display: inline-block; padding: 12px 25px; background-color: #e63946; color: white; text-decoration: none; border-radius: 50px; font-weight: bold; font-size: 18px;">Verify My Email</a>
  <p style="font-size: 14px; color: #888;">&copy; %d MatchMate. All rights reserved.</p>
</div>`, firstName, verifyLink, time.Now().Year())
}
