// Package erle measures Echo Return Loss Enhancement, the ratio in decibels
// between the energy of a microphone capture and the energy left after echo
// cancellation:
//
//	ERLE_dB = 10 * log10((sum(mic^2) + floor) / (sum(residual^2) + floor))
//
// Larger values mean more echo was removed. The floor keeps the ratio finite
// when either signal is digital silence; two silent signals measure 0 dB.
//
// # Usage
//
//	db := erle.Calculate(mic, residual)
//
//	res := erle.Analyze(mic, residual, erle.DefaultFloor)
//	fmt.Printf("%.1f dB (mic %.3g, residual %.3g)\n", res.ERLE_dB, res.MicEnergy, res.ResidualEnergy)
//
// Segmental computes the same ratio over consecutive fixed-length segments,
// which shows how suppression evolves while an adaptive filter converges.
package erle
