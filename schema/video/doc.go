// Package video builds USB Video Class (UVC 1.5) class-specific
// VideoControl descriptors: the interface header and the input, camera
// and output terminals.
//
// A VideoControl interface carries its header as a child, and the header
// owns the units and terminals so its total length covers them:
//
//	header, err := video.Header(video.DefaultHeaderOptions(), camera, output)
//	iface, err := schema.Interface(vc, header, interruptEndpoint)
//
// All multi-byte values, including the camera bmControls bitmap, are
// emitted least significant byte first.
package video
