// Package pk implements closed-form pharmacokinetic curves: a two-compartment
// Bateman function, a three-compartment absorption/conversion/elimination
// cascade, allometric Cmax scaling and linear superposition of repeated
// doses.
//
// Curves are normalized so their peak equals 1.0 ("relative level"). The
// absolute concentration in ng/ml is the relative level times the
// weight-scaled reference Cmax. Dose scaling is linear in dose/reference.
package pk
