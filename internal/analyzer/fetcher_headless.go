package analyzer

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// fetchHeadless renders the page in headless Chrome and returns the
// resulting document HTML. Used only when the static fetch produced
// nothing and headless mode is enabled; failures degrade to "".
func (f *Fetcher) fetchHeadless(ctx context.Context, rawURL string) string {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(browserUserAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 25*time.Second)
	defer reqCancel()

	var html string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if f.logger != nil {
			f.logger.Printf("[Fetcher] headless fetch error url=%s err=%v", rawURL, err)
		}
		return ""
	}
	return html
}
