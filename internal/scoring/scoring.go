package scoring

// MaxScore is the award for a correct guess with the full round time left.
const MaxScore = 100

// ForGuess maps remaining round time to the guesser's award. Guessing at the
// buzzer scores 0, guessing instantly scores MaxScore.
func ForGuess(secondsRemaining, roundTimeSeconds int) int {
	if roundTimeSeconds <= 0 || secondsRemaining <= 0 {
		return 0
	}
	if secondsRemaining > roundTimeSeconds {
		secondsRemaining = roundTimeSeconds
	}
	return MaxScore * secondsRemaining / roundTimeSeconds
}

// DrawerShare is the drawer's cut for each successful guess of their word.
func DrawerShare(guesserScore int) int {
	if guesserScore <= 0 {
		return 0
	}
	return guesserScore / 2
}
