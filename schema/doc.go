// Package schema describes the USB descriptors that package descriptor
// can compose, as a closed set of kinds.
//
// Each kind has an options struct with call-site defaults and a builder
// returning a descriptor node:
//
//	ep, err := schema.Endpoint(schema.DefaultEndpointOptions())
//	iface, err := schema.Interface(schema.DefaultInterfaceOptions(), ep)
//	cfg, err := schema.Configuration(schema.DefaultConfigurationOptions(), iface)
//
// The same trees can be read from TOML or YAML definitions with
// [LoadFile]. Every entry names a kind, optionally a C identifier and its
// children; the remaining keys are that kind's options, decoded over the
// defaults. Unknown keys are rejected.
//
//	[[descriptor]]
//	kind = "device"
//	vendor_id = 0x1209
//	product_id = 0x0001
//
//	[[descriptor]]
//	kind = "configuration"
//	name = "config_descriptor"
//
//	  [[descriptor.children]]
//	  kind = "interface"
//
//	    [[descriptor.children.children]]
//	    kind = "endpoint"
//	    direction = "in"
//
// [Builder.Build] builds any kind from its options; Builder.Names
// annotates device vendor and product labels, typically from a
// usb.ids database.
//
// Container kinds (configuration, interface, iad, bos, vc_header) accept
// children. Configuration and IAD count distinct interface numbers in
// their subtree, and interfaces count their endpoint children.
package schema
