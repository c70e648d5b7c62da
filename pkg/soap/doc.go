// Package soap serves canned SOAP 1.1 and 1.2 responses.
//
// A Handler is configured with the operations of one mocked endpoint. Each
// request is matched to an operation by its SOAPAction (the SOAPAction
// header for 1.1, the action parameter of the Content-Type for 1.2) or, when
// that fails, by the local name of the first element in the Body.
//
//	h, err := soap.NewHandler(&soap.Config{
//	    Path: "/weather",
//	    Operations: map[string]*soap.Operation{
//	        "GetWeather": {
//	            Name:     "GetWeather",
//	            Dispatch: soap.DispatchSequence,
//	            Responses: []soap.Response{
//	                {Name: "sunny", Content: `<GetWeatherResponse><sky>sunny</sky></GetWeatherResponse>`},
//	                {Name: "rainy", Content: `<GetWeatherResponse><sky>rainy</sky></GetWeatherResponse>`},
//	            },
//	        },
//	    },
//	})
//
// # Dispatch
//
// DispatchSequence cycles through the responses, DispatchRandom picks one at
// random, DispatchXPath sends the response whose name equals the request
// value at DispatchPath, and anything else sends the default response (the
// first one when no default is named).
//
// # Responses
//
// Response content that is a complete envelope is sent unchanged. Anything
// else is wrapped in an envelope matching the request's SOAP version.
// {{xpath:/path}} placeholders are replaced with values from the request.
//
// Requests that cannot be parsed or matched get a SOAP fault; fault codes
// soap:Client and soap:Server become soap:Sender and soap:Receiver in 1.2.
// The WSDL, when configured, is served at ?wsdl.
package soap
