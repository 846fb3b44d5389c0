// Package cloud builds the compute-instance identity directory from the EC2
// DescribeInstances inventory.
//
// Every instance exposing a private address contributes one entry named after
// its "Name" tag, or "Unknown" when the tag is absent. Pages are requested at a
// limited rate and each request has its own timeout. The builder never fails:
// credential, throttling, network and timeout errors end the walk and the
// entries gathered so far are returned as a degraded directory.Result whose
// cause carries errors.ErrCodeCloudDirectory and a reason.
package cloud
