package ehentai

const listHTML = `<!DOCTYPE html>
<html><body>
<table class="ptt"><tr>
<td>&lt;</td><td class="ptds"><a href="#">1</a></td><td><a href="#">2</a></td><td><a href="#">12</a></td><td>&gt;</td>
</tr></table>
<table class="itg gltc">
<tr><th>Category</th><th>Published</th><th>Title</th><th>Uploader</th></tr>
<tr>
<td class="gl1c glcat"><div class="cn ct2">Doujinshi</div></td>
<td class="gl2c">
<div class="glthumb"><div><img data-src="https://ehgt.org/cover1.jpg" src="data:image/gif;base64,R0lGOD"></div></div>
<div><div id="posted_123">2024-01-02 03:04</div><div class="ir" style="background-position:-16px -21px;opacity:1"></div></div>
</td>
<td class="gl3c glname"><a href="https://e-hentai.org/g/123/abcdef/"><div class="glink">First Gallery</div><div><div class="gt" title="language:english">english</div></div></a></td>
<td class="gl4c glhide"><div><a href="https://e-hentai.org/uploader/alice">alice</a></div><div>42 pages</div></td>
</tr>
<tr>
<td class="gl1c glcat"><div class="cn cta">Western</div></td>
<td class="gl2c">
<div class="glthumb"><div><img src="https://ehgt.org/cover2.jpg"></div></div>
<div><div id="posted_456">2023-12-31 23:59</div><div class="ir" style="background-position:0px -1px;opacity:1"></div></div>
</td>
<td class="gl3c glname"><a href="https://e-hentai.org/g/456/0f0f0f/"><div class="glink">Second Gallery</div></a></td>
<td class="gl4c glhide"><div><a href="https://e-hentai.org/uploader/bob">bob</a></div><div>1 page</div></td>
</tr>
</table>
</body></html>`

const detailHTML = `<!DOCTYPE html>
<html><body>
<div id="gd1"><div style="width:250px;height:354px;background:transparent url(https://ehgt.org/c.jpg) 0 0 no-repeat"></div></div>
<div id="gd2"><h1 id="gn">English Title</h1><h1 id="gj">日本語タイトル</h1></div>
<div id="gdc"><div class="cs ct3">Manga</div></div>
<div id="gdn"><a href="https://e-hentai.org/uploader/bob">bob</a></div>
<div id="gdd"><table>
<tr><td class="gdt1">Posted:</td><td class="gdt2">2023-05-06 07:08</td></tr>
<tr><td class="gdt1">Parent:</td><td class="gdt2">None</td></tr>
<tr><td class="gdt1">Visible:</td><td class="gdt2">Yes</td></tr>
<tr><td class="gdt1">Language:</td><td class="gdt2">Japanese &nbsp;</td></tr>
<tr><td class="gdt1">File Size:</td><td class="gdt2">12.3 MiB</td></tr>
<tr><td class="gdt1">Length:</td><td class="gdt2">24 pages</td></tr>
<tr><td class="gdt1">Favorited:</td><td class="gdt2">1,234 times</td></tr>
</table></div>
<table><tr><td id="rating_label">Average: 4.56</td><td><span id="rating_count">321</span></td></tr></table>
<div id="gd5"><p class="g2"><a href="#" onclick="return popUp('https://e-hentai.org/archiver.php?gid=1&amp;token=t&amp;or=abc',480,320)">Archive Download</a></p></div>
<div id="taglist"><table>
<tr><td class="tc">artist:</td><td><div><a href="#">alice</a></div><div><a href="#">carol</a></div></td></tr>
<tr><td class="tc">female:</td><td><div><a href="#">glasses</a></div></td></tr>
</table></div>
<table class="ptt"><tr><td>&lt;</td><td>1</td><td>2</td><td>3</td><td>&gt;</td></tr></table>
<div id="gdt">
<a href="https://e-hentai.org/s/aaa111/1-1"><div title="Page 1" style="width:100px;height:141px;background:transparent url(https://ehgt.org/t/1.webp) -0px 0 no-repeat"></div></a>
<a href="https://e-hentai.org/s/bbb222/1-2"><img src="https://ehgt.org/t/2.jpg"></a>
</div>
</body></html>`

const mpvHTML = `<html><head><script type="text/javascript">
var gid = 1;
var mpvkey = "mk123";
var imagelist = [{"n":"1.jpg","k":"k1","t":"x"},{"n":"2.jpg","k":"k2","t":"y"}];
</script></head><body></body></html>`

const archiveHTML = `<html><body><div id="db">
<table><tr>
<td><p><a href="#" onclick="return do_hathdl('780')">780x</a></p><p>29.09 MiB</p><p>Free!</p></td>
<td><p>980x</p><p>N/A</p><p>N/A</p></td>
<td><p><a href="#" onclick="return do_hathdl('org')">Original</a></p><p>120 MiB</p><p>1,234 GP</p></td>
</tr></table>
<p>Current Funds:</p><p>5,678 GP</p><p>90 Credits</p>
</div></body></html>`

const downloadHTML = `<html><body><div id="db"><p>A 1280x resolution archive has been queued for download by your H@H client MyClient Downloads should start within a minute.</p></div></body></html>`

const profileHTML = `<html><body>
<img src="style_images/ambience/logo.gif">
<div id="profilename">Alice</div>
<div><img src="https://forums.e-hentai.org/uploads/av-42.jpg"></div>
</body></html>`

const uconfigHTML = `<html><body><form>
<input type="text" name="favorite_0" value="Faves">
<input type="text" name="favorite_1" value="">
<input type="text" name="favorite_9" value="Last">
<input type="text" name="unrelated" value="x">
</form></body></html>`

const newsHTML = `<html><body>
<div id="eventpane"><p>It is the dawn of a new day!</p>
<p>You gain <strong>30</strong> EXP, <strong>10,393</strong> Credits, <strong>10,000</strong> GP and <strong>11</strong> Hath!</p></div>
</body></html>`
