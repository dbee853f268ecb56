//go:build e2e

package e2e

import (
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecheck/storecheck/navigator"
)

// --- favourites tests, all require a logged-in session ---

func TestFavourites_PageAccess(t *testing.T) {
	page := newPage(t)
	login(t, page)

	gotoPage(t, page, "/favourites")

	waitVisible(t, page.Locator("#__next"))
	title, err := page.Title()
	require.NoError(t, err)
	assert.Equal(t, "StackDemo", title)
}

func TestFavourites_PageStructure(t *testing.T) {
	page := newPage(t)
	login(t, page)

	gotoPage(t, page, "/favourites")

	// heading markup varies between builds, accept any of the known spellings
	candidates := []string{
		"h1:has-text('Favourites')",
		"h1:has-text('Favorites')",
		".favourites",
		".favorites",
		"[data-testid='favourites']",
	}
	var found []string
	for _, sel := range candidates {
		count, err := page.Locator(sel).Count()
		require.NoError(t, err)
		if count > 0 {
			waitVisible(t, page.Locator(sel).First())
			found = append(found, sel)
		}
	}
	t.Logf("favourites markers present: %v", found)
}

func TestFavourites_AddFromHomepage(t *testing.T) {
	page := newPage(t)
	login(t, page)

	gotoPage(t, page, "/")
	waitVisible(t, page.Locator(".shelf-item").First())

	// favourite toggles are icon buttons on each product card
	buttons := page.Locator("button.MuiButtonBase-root.MuiIconButton-root")
	count, err := buttons.Count()
	require.NoError(t, err)
	if count == 0 {
		t.Skip("no favourite buttons rendered for this account")
	}

	require.NoError(t, buttons.First().Click())
	page.WaitForTimeout(1000)

	gotoPage(t, page, "/favourites")
	waitVisible(t, page.Locator("#__next"))
}

func TestFavourites_RemoveItem(t *testing.T) {
	page := newPage(t)
	login(t, page)

	gotoPage(t, page, "/favourites")

	removeButtons := page.Locator("button:has-text('Remove'), [data-testid='remove-from-favourites']")
	count, err := removeButtons.Count()
	require.NoError(t, err)
	if count == 0 {
		t.Skip("favourites list is empty, nothing to remove")
	}

	require.NoError(t, removeButtons.First().Click())
	page.WaitForTimeout(1000)
	waitVisible(t, page.Locator("#__next"))
}

func TestFavourites_Navigation(t *testing.T) {
	page := newPage(t)
	login(t, page)

	gotoPage(t, page, "/")

	link := page.Locator("a[href*='favourites'], a:has-text('Favourites')")
	count, err := link.Count()
	require.NoError(t, err)
	if count > 0 {
		require.NoError(t, link.First().Click())
		require.NoError(t, page.WaitForURL("**/favourites"))
	} else {
		gotoPage(t, page, "/favourites")
	}
	waitVisible(t, page.Locator("#__next"))

	// and back to the homepage
	gotoPage(t, page, "/")
	waitVisible(t, page.Locator("#__next"))
}

func TestFavourites_ResponsiveDesign(t *testing.T) {
	page := newPage(t)
	login(t, page)

	gotoPage(t, page, "/favourites")

	for _, vp := range responsiveViewports {
		require.NoError(t, page.SetViewportSize(vp.width, vp.height))
		waitVisible(t, page.Locator("#__next"))
	}
}

func TestFavourites_LoadPerformance(t *testing.T) {
	page := newPage(t)
	login(t, page)

	res, err := navigator.GotoAndVerify(page, siteURL("/favourites"), "#__next", navigator.DefaultConfig())
	require.NoError(t, err)
	assert.Less(t, res.Elapsed, 10*time.Second, "favourites page took %v to load", res.Elapsed)
	t.Logf("favourites loaded in %v", res.Elapsed)
}

func TestFavourites_SlowNetwork(t *testing.T) {
	page := newPage(t)
	login(t, page)

	require.NoError(t, page.Context().SetExtraHTTPHeaders(map[string]string{"X-Slow-Network": "true"}))

	res, err := navigator.GotoAndVerify(page, siteURL("/favourites"), "#__next", navigator.DefaultConfig())
	require.NoError(t, err)
	t.Logf("favourites loaded in %v on slow network", res.Elapsed)

	// the site shows a banner when it detects a slow connection
	banner := page.Locator("text=Good news is we are online but bad news is you are on slow network")
	count, err := banner.Count()
	require.NoError(t, err)
	if count > 0 {
		waitVisible(t, banner)
	}
}

func TestFavourites_NetworkErrorRecovery(t *testing.T) {
	page := newPage(t)
	login(t, page)

	require.NoError(t, page.Context().SetExtraHTTPHeaders(map[string]string{"X-Network-Error": "true"}))

	res := navigator.Do(siteURL("/favourites"), func() error {
		_, err := page.Goto(siteURL("/favourites"), playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
			Timeout:   playwright.Float(10000),
		})
		return err
	}, navigator.Config{MaxAttempts: 3, Delay: 2 * time.Second})
	require.True(t, res.OK, "favourites page did not load after %d attempts: %v", res.Attempts, res.LastErr)

	waitVisible(t, page.Locator("#__next"))
}

func TestFavourites_ConsoleErrors(t *testing.T) {
	page := newPage(t)
	login(t, page)

	errors := collectConsoleErrors(page)
	gotoPage(t, page, "/favourites")

	assert.Empty(t, errors(), "critical console errors on favourites page")
}

func TestFavourites_Accessibility(t *testing.T) {
	page := newPage(t)
	login(t, page)

	gotoPage(t, page, "/favourites")

	headings := page.Locator("h1, h2, h3, h4, h5, h6")
	count, err := headings.Count()
	require.NoError(t, err)
	if count > 0 {
		waitVisible(t, headings.First())
	}

	waitVisible(t, page.Locator("body"))
}
