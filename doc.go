// Package vhttp virtualizes outbound HTTP calls for tests.
//
// A Registry holds scenarios: ordered lists of expected calls whose request
// and response bodies live in fixture files under a root directory. A Client
// bound to a scenario answers requests from that scenario instead of the
// network, consuming each call at most once; a Client bound to no scenario
// sends real requests.
//
//	reg := vhttp.New(vhttp.Config{Root: "testdata/virtual"})
//	defer reg.Close()
//
//	err := reg.Register(map[string]vhttp.Definition{
//		"checkout": {
//			{Key: "cart:1", Spec: vhttp.CallSpec{Method: "get", URI: "http://shop/cart"}},
//		},
//	})
//
//	c := reg.Client("checkout")
//	resp, err := c.Get(ctx, "http://shop/cart", nil)
//	err = c.Done() // reports calls that were never made
//
// Fixtures are looked up by call name and sequence number:
// cart.response.json, cart.request.data.1.js, cart.response.tmpl.xml and so on.
package vhttp
