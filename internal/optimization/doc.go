// Package optimization holds the types shared by the trajectory engine and
// its callers: optimizer settings, the capability interfaces an analysed
// function exposes, the Scalar optional value used to mark invalid
// evaluations, and the Safe Evaluator built on top of it.
package optimization
