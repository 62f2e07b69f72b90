package transform

// ComputeRelativePose returns the rigid transform taking points from the frame of camera 1 to
// the frame of camera 2: R = R2 * R1^T and T = T2 - R * T1. The arithmetic is done in float32.
//
// The result is only good enough to seed a homography between the two views. It is not a
// general pose composition.
func ComputeRelativePose(r1 [9]float32, t1 [3]float32, r2 [9]float32, t2 [3]float32) ([9]float32, [3]float32) {
	var r [9]float32
	var t [3]float32
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float32
			for k := 0; k < 3; k++ {
				// R1^T[k][j] is R1[j][k]
				sum += r2[3*i+k] * r1[3*j+k]
			}
			r[3*i+j] = sum
		}
	}
	for i := 0; i < 3; i++ {
		t[i] = t2[i] - (r[3*i]*t1[0] + r[3*i+1]*t1[1] + r[3*i+2]*t1[2])
	}
	return r, t
}
