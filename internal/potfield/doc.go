// Package potfield implements frequency- and gradient-domain filters
// for potential-field rasters: the FFT vertical derivative, the tilt
// angle family (standard, hyperbolic, second order, directional, total
// horizontal derivative), and the directional derivative / derivative
// ratio pair.
//
// The vertical derivative multiplies each spectral bin by its radial
// wavenumber magnitude, the frequency-domain equivalent of upward
// differentiation of a potential field. Because the operator
// multiplies rather than divides, the zero-frequency bin needs no
// special casing: it is simply scaled to zero.
package potfield
