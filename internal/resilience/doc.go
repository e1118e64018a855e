// Package resilience groups the fault tolerance helpers used around outbound
// calls: circuit breakers for the LLM backends, the content fetcher and the
// persistence service, and retry with fixed or exponential backoff.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.LLMConfig("openai-api"))
//	text, err := circuitbreaker.Run(cb, func() (string, error) {
//	    return callModel(ctx)
//	})
//
//	err := retry.Fixed(3, 2*time.Second).Do(ctx, func() error {
//	    return performOperation()
//	})
package resilience
