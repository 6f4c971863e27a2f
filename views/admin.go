package views

import (
	"bytes"
	"strconv"

	"github.com/a-h/templ"
)

// AdminLogin renders the admin password prompt.
func AdminLogin(site Site, showError bool, csrf string) templ.Component {
	return layout(site, "Admin - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Admin login</h1>")
		if showError {
			buf.WriteString("<p class=\"flash-error\">Wrong password.</p>")
		}
		buf.WriteString("<form method=\"post\" action=\"/admin/login/\">")
		buf.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(csrf) + "\"/>")
		buf.WriteString("<label for=\"password\">Password</label>")
		buf.WriteString("<input id=\"password\" type=\"password\" name=\"password\" autofocus/>")
		buf.WriteString("<button type=\"submit\">Log in</button>")
		buf.WriteString("</form>")
	})
}

// AdminDashboard renders the post list with edit/delete controls.
func AdminDashboard(site Site, posts []AdminPostRow, msg, csrf string) templ.Component {
	return layout(site, "Dashboard - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Posts</h1>")
		if msg != "" {
			buf.WriteString("<p class=\"flash\">" + esc(msg) + "</p>")
		}
		buf.WriteString("<p><a class=\"button\" href=\"/admin/post/new/\">New post</a> ")
		buf.WriteString("<form class=\"inline\" method=\"post\" action=\"/admin/logout/\">")
		buf.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(csrf) + "\"/>")
		buf.WriteString("<button type=\"submit\">Log out</button></form></p>")
		buf.WriteString("<table class=\"admin-posts\"><thead><tr><th>Title</th><th>Slug</th><th>Status</th><th>Publish</th><th></th></tr></thead><tbody>")
		for _, p := range posts {
			id := strconv.FormatInt(p.ID, 10)
			buf.WriteString("<tr>")
			buf.WriteString("<td><a href=\"/admin/post/" + id + "/\">" + esc(p.Title) + "</a></td>")
			buf.WriteString("<td>" + esc(p.Slug) + "</td>")
			buf.WriteString("<td>" + esc(p.Status) + "</td>")
			buf.WriteString("<td>" + esc(p.Date) + "</td>")
			buf.WriteString("<td><button class=\"danger\" data-delete=\"/admin/post/" + id + "/\" data-csrf=\"" + esc(csrf) + "\">Delete</button></td>")
			buf.WriteString("</tr>")
		}
		buf.WriteString("</tbody></table>")
		writeDeleteScript(buf)
	})
}

// writeDeleteScript wires data-delete buttons to a confirmed DELETE request.
func writeDeleteScript(buf *bytes.Buffer) {
	buf.WriteString(`<script>
document.addEventListener("click", function (e) {
	var btn = e.target.closest("[data-delete]");
	if (!btn) return;
	if (!confirm("Delete this item?")) return;
	fetch(btn.dataset.delete, {
		method: "DELETE",
		headers: { "X-CSRF-Token": btn.dataset.csrf },
	}).then(function (res) {
		if (res.redirected) { window.location = res.url; } else { window.location.reload(); }
	});
});
</script>`)
}

func writeAdminInput(buf *bytes.Buffer, name, label, value string) {
	buf.WriteString("<label for=\"" + name + "\">" + label + "</label>")
	buf.WriteString("<input id=\"" + name + "\" type=\"text\" name=\"" + name + "\" value=\"" + esc(value) + "\"/>")
}

// AdminPost renders the post create/edit form with its image attachments.
func AdminPost(site Site, form AdminPostForm, msg, csrf string) templ.Component {
	return layout(site, "Edit post - "+site.Name, func(buf *bytes.Buffer) {
		if form.ID == 0 {
			buf.WriteString("<h1>New post</h1>")
		} else {
			buf.WriteString("<h1>Edit post</h1>")
		}
		if msg != "" {
			buf.WriteString("<p class=\"flash\">" + esc(msg) + "</p>")
		}
		buf.WriteString("<form method=\"post\" action=\"/admin/save/\">")
		buf.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(csrf) + "\"/>")
		buf.WriteString("<input type=\"hidden\" name=\"id\" value=\"" + strconv.FormatInt(form.ID, 10) + "\"/>")
		writeAdminInput(buf, "title", "Title", form.Title)
		writeAdminInput(buf, "subtitle", "Subtitle", form.Subtitle)
		writeAdminInput(buf, "slug", "Slug (from title when empty)", form.Slug)
		writeAdminInput(buf, "author", "Author", form.Author)
		writeAdminInput(buf, "date", "Publish date (YYYY-MM-DD)", form.Date)
		buf.WriteString("<label for=\"status\">Status</label><select id=\"status\" name=\"status\">")
		for _, s := range []string{"draft", "published", "trashed"} {
			sel := ""
			if s == form.Status {
				sel = " selected"
			}
			buf.WriteString("<option value=\"" + s + "\"" + sel + ">" + s + "</option>")
		}
		buf.WriteString("</select>")
		writeAdminInput(buf, "tags", "Tags (comma-separated)", form.Tags)
		buf.WriteString("<label for=\"body\">Body (markdown)</label>")
		buf.WriteString("<textarea id=\"body\" name=\"body\" rows=\"20\">" + esc(form.Body) + "</textarea>")
		buf.WriteString("<button type=\"submit\">Save</button>")
		buf.WriteString("</form>")

		if form.ID != 0 {
			buf.WriteString("<h2>Images</h2>")
			if len(form.Images) > 0 {
				buf.WriteString("<ul class=\"admin-images\">")
				for _, img := range form.Images {
					id := strconv.FormatInt(img.ID, 10)
					buf.WriteString("<li><img src=\"" + esc(img.URL) + "\" alt=\"" + esc(img.Title) + "\"/> " + esc(img.Title))
					buf.WriteString(" <button class=\"danger\" data-delete=\"/admin/images/" + id + "/\" data-csrf=\"" + esc(csrf) + "\">Remove</button></li>")
				}
				buf.WriteString("</ul>")
			}
			buf.WriteString("<form method=\"post\" action=\"/admin/post/" + strconv.FormatInt(form.ID, 10) + "/images/\" enctype=\"multipart/form-data\">")
			buf.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(csrf) + "\"/>")
			buf.WriteString("<input type=\"file\" name=\"image\" accept=\"image/*\"/>")
			writeAdminInput(buf, "image_title", "Image title", "")
			writeAdminInput(buf, "image_author", "Image author", "")
			writeAdminInput(buf, "image_description", "Image description", "")
			buf.WriteString("<button type=\"submit\">Upload</button>")
			buf.WriteString("</form>")
			writeDeleteScript(buf)
		}
	})
}
